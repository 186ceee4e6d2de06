package main

import (
	"fmt"
	"io"

	"github.com/jamesainslie/modpack/pkg/modpack/config"
	"github.com/jamesainslie/modpack/pkg/modpack/history"
	"github.com/jamesainslie/modpack/pkg/modpack/logging"
	"github.com/jamesainslie/modpack/pkg/modpack/output"
	"github.com/jamesainslie/modpack/pkg/modpack/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildFlags holds the command-line switches for a build.
type buildFlags struct {
	ConfigFile        string
	Debug             bool
	CreateVersionJSON bool
	NoHistory         bool
	Verbose           bool
	Quiet             bool
	Format            string
}

// runBuild is the root command: package the mod in the current directory.
func runBuild(cmd *cobra.Command, args []string) error {
	flags := buildFlags{
		ConfigFile:        cfgFile,
		Debug:             viper.GetBool("debug"),
		CreateVersionJSON: viper.GetBool("create_version_json"),
		NoHistory:         viper.GetBool("no_history"),
		Verbose:           getVerbose(),
		Quiet:             getQuiet(),
		Format:            getFormat(),
	}

	return build(cmd.OutOrStdout(), ".", flags)
}

// build loads the configuration, runs the pipeline in baseDir and reports
// the result to out. Machine-readable formats replace the summary and the
// "Done!" line.
func build(out io.Writer, baseDir string, flags buildFlags) error {
	formatter, err := formatterFor(flags.Format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Path:         cfg.Logging.Path,
		ConsoleLevel: consoleLevel(flags.Verbose, flags.Quiet),
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	logger := logging.Get("cli")
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}

	opts := []pipeline.Option{
		pipeline.WithBaseDir(baseDir),
		pipeline.WithLogger(logging.Get("pipeline")),
	}
	if cfg.History.Enabled && !flags.NoHistory {
		h, err := history.New(cfg.History.Path)
		if err != nil {
			logger.Warn("build history disabled", "error", err)
		} else {
			opts = append(opts, pipeline.WithHistory(h))
		}
	}

	result, err := pipeline.New(cfg, opts...).Run(pipeline.Options{
		Debug:               flags.Debug,
		CreateVersionRecord: flags.CreateVersionJSON,
	})
	if err != nil {
		return err
	}

	if formatter != nil {
		return formatter.Format(out, output.NewBuildReport(result))
	}

	if !flags.Quiet {
		if err := output.Summary(out, result); err != nil {
			return err
		}
	}
	if result.RecordPath != "" {
		fmt.Fprintln(out, "Done!")
	}
	return nil
}

// consoleLevel maps the verbosity flags to a stderr log level.
func consoleLevel(verbose, quiet bool) string {
	switch {
	case quiet:
		return "error"
	case verbose:
		return "debug"
	default:
		return "warn"
	}
}
