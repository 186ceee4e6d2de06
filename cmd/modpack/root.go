package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jamesainslie/modpack/pkg/modpack/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "modpack",
		Short: "Package a REFramework Lua mod for Fluffy Mod Manager",
		Long: `Modpack stages the mod script, writes modinfo.ini, copies the cover image
and compresses everything into <prefix>_<version>.zip. The version is read
from the script's "local modVersion = ..." declaration.

Examples:
  modpack                          # Build the archive, remove the staging tree
  modpack -v                       # Also write version.json
  modpack -d                       # Keep .temp for inspection, never write version.json
  modpack inspect NestRarityLocker_1.2.3.zip
  modpack history                  # View previous builds`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runBuild,
	}
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./modpack.yaml or ~/.config/modpack/modpack.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().Bool("verbose", false, "debug output")
	rootCmd.PersistentFlags().StringP("format", "o", output.Pretty, "output format: pretty, json, yaml")

	// Build flags
	rootCmd.Flags().BoolP("debug", "d", false, "keep the staging directory and skip version.json")
	rootCmd.Flags().BoolP("create_version_json", "v", false, "write version.json next to the archive")
	rootCmd.Flags().Bool("no-history", false, "do not record this build in the history")

	bindFlags()
}

// bindFlags binds the command-line flags into viper. Flags are the only
// source for these keys.
func bindFlags() {
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	_ = viper.BindPFlag("create_version_json", rootCmd.Flags().Lookup("create_version_json"))
	_ = viper.BindPFlag("no_history", rootCmd.Flags().Lookup("no-history"))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// getFormat returns the selected output format.
func getFormat() string {
	return viper.GetString("format")
}

// formatterFor returns nil for the pretty format and the registered
// formatter otherwise.
func formatterFor(name string) (output.Formatter, error) {
	if name == "" || name == output.Pretty {
		return nil, nil
	}
	f, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s, %s)", err, output.Pretty, strings.Join(output.Available(), ", "))
	}
	return f, nil
}

// render writes report with the selected formatter, or calls pretty for the
// styled terminal output.
func render(w io.Writer, format string, report any, pretty func(io.Writer) error) error {
	f, err := formatterFor(format)
	if err != nil {
		return err
	}
	if f == nil {
		return pretty(w)
	}
	return f.Format(w, report)
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
