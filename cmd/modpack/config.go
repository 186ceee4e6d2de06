package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/modpack/pkg/modpack/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage modpack configuration settings.

Configuration is loaded from the first file found of:
  1. ./modpack.yaml
  2. $XDG_CONFIG_HOME/modpack/modpack.yaml (if set)
  3. ~/.config/modpack/modpack.yaml

Keys missing from the file keep their built-in defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long: `Create a default modpack.yaml in the current directory if one doesn't exist.
With --global the file is created in the user configuration directory instead.`,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file paths",
	Long:  `Display the project and user configuration file paths.`,
	RunE:  runConfigPath,
}

var configInitGlobal bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write to the user configuration directory")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		cfg = config.Default()
	}

	if cfg.File != "" {
		fmt.Printf("Config file: %s\n\n", cfg.File)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("mod.name:               %s\n", cfg.Mod.Name)
	fmt.Printf("mod.description:        %s\n", cfg.Mod.Description)
	fmt.Printf("mod.authors:            %s\n", cfg.Mod.Author())
	fmt.Printf("mod.screenshot:         %s\n", cfg.Mod.Screenshot)
	fmt.Printf("mod.category:           %s\n", cfg.Mod.Category)
	fmt.Printf("mod.homepage:           %s\n", cfg.Mod.Homepage)
	fmt.Printf("paths.script:           %s\n", cfg.Paths.Script)
	fmt.Printf("paths.script_name:      %s\n", cfg.Paths.ScriptName)
	fmt.Printf("paths.work_dir:         %s\n", cfg.Paths.WorkDir)
	fmt.Printf("paths.mod_root:         %s\n", cfg.Paths.ModRoot)
	fmt.Printf("paths.module_name:      %s\n", cfg.Paths.ModuleName)
	fmt.Printf("paths.archive_prefix:   %s\n", cfg.Paths.ArchivePrefix)
	fmt.Printf("paths.output_dir:       %s\n", cfg.Paths.OutputDir)
	fmt.Printf("paths.version_record:   %s\n", cfg.Paths.VersionRecord)
	fmt.Printf("logging.level:          %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:           %s\n", cfg.Logging.Path)
	fmt.Printf("history.enabled:        %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:           %s\n", cfg.History.Path)
	fmt.Printf("history.retention:      %d days\n", cfg.History.RetentionDays)

	if err := cfg.Validate("."); err != nil {
		fmt.Printf("\nWarning: %v\n", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath, err := initConfigPath(configInitGlobal)
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		return nil
	}

	if err := config.WriteDefault(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

func initConfigPath(global bool) (string, error) {
	if !global {
		return config.ProjectConfigPath("."), nil
	}
	configDir, err := config.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return config.ProjectConfigPath(configDir), nil
}

// runConfigPath shows the config file paths.
func runConfigPath(cmd *cobra.Command, args []string) error {
	paths := []string{config.ProjectConfigPath(".")}
	if configDir, err := config.ConfigDir(); err == nil {
		paths = append(paths, config.ProjectConfigPath(configDir))
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		fmt.Println(abs)

		if _, err := os.Stat(p); err == nil {
			printVerbose("File exists")
		} else if os.IsNotExist(err) {
			printVerbose("File does not exist")
		}
	}

	return nil
}
