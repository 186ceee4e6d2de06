package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// ModConfig describes the mod as the mod manager presents it.
type ModConfig struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Authors     []string `mapstructure:"authors"`
	Screenshot  string   `mapstructure:"screenshot"`
	Category    string   `mapstructure:"category"`
	Homepage    string   `mapstructure:"homepage"`
}

// Author returns the contributors joined the way modinfo.ini expects.
func (m ModConfig) Author() string {
	return strings.Join(m.Authors, ", ")
}

// PathsConfig holds the input, staging and output locations.
// Relative paths are resolved against the directory modpack runs in.
type PathsConfig struct {
	Script        string `mapstructure:"script"`
	ScriptName    string `mapstructure:"script_name"`
	WorkDir       string `mapstructure:"work_dir"`
	ModRoot       string `mapstructure:"mod_root"`
	ModuleName    string `mapstructure:"module_name"`
	ArchivePrefix string `mapstructure:"archive_prefix"`
	OutputDir     string `mapstructure:"output_dir"`
	VersionRecord string `mapstructure:"version_record"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// HistoryConfig configures the build history.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Mod     ModConfig     `mapstructure:"mod"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
	History HistoryConfig `mapstructure:"history"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// Default returns the built-in configuration without consulting any file
// or environment variable.
func Default() *Config {
	return &Config{
		Mod: ModConfig{
			Name:        DefaultModName,
			Description: DefaultDescription,
			Authors:     append([]string(nil), DefaultAuthors...),
			Screenshot:  DefaultScreenshot,
			Category:    DefaultCategory,
			Homepage:    DefaultHomepage,
		},
		Paths: PathsConfig{
			Script:        DefaultScriptPath,
			ScriptName:    DefaultScriptName,
			WorkDir:       DefaultWorkDir,
			ModRoot:       DefaultModRoot,
			ModuleName:    DefaultModuleName,
			ArchivePrefix: DefaultArchivePrefix,
			OutputDir:     DefaultOutputDir,
			VersionRecord: DefaultVersionRecord,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          DefaultHistoryDir(),
			RetentionDays: DefaultRetentionDays,
		},
	}
}

// Load loads configuration from file and environment variables.
// When file is empty the config is searched for in (in order of precedence):
//   - ./modpack.yaml
//   - $XDG_CONFIG_HOME/modpack/modpack.yaml
//   - $HOME/.config/modpack/modpack.yaml
//
// Settings come from the file and built-in defaults only; environment
// variables never override them.
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	historyPath, err := ExpandPath(cfg.History.Path)
	if err != nil {
		return nil, err
	}
	cfg.History.Path = historyPath
	cfg.File = v.ConfigFileUsed()

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("mod.name", d.Mod.Name)
	v.SetDefault("mod.description", d.Mod.Description)
	v.SetDefault("mod.authors", d.Mod.Authors)
	v.SetDefault("mod.screenshot", d.Mod.Screenshot)
	v.SetDefault("mod.category", d.Mod.Category)
	v.SetDefault("mod.homepage", d.Mod.Homepage)

	v.SetDefault("paths.script", d.Paths.Script)
	v.SetDefault("paths.script_name", d.Paths.ScriptName)
	v.SetDefault("paths.work_dir", d.Paths.WorkDir)
	v.SetDefault("paths.mod_root", d.Paths.ModRoot)
	v.SetDefault("paths.module_name", d.Paths.ModuleName)
	v.SetDefault("paths.archive_prefix", d.Paths.ArchivePrefix)
	v.SetDefault("paths.output_dir", d.Paths.OutputDir)
	v.SetDefault("paths.version_record", d.Paths.VersionRecord)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.path", "")

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.retention_days", d.History.RetentionDays)
}

// Validate reports configuration that would make a build impossible or
// destructive. Relative paths are resolved against baseDir, the directory
// the build runs in.
func (c *Config) Validate(baseDir string) error {
	required := []struct {
		key, val string
	}{
		{"paths.script", c.Paths.Script},
		{"paths.script_name", c.Paths.ScriptName},
		{"paths.work_dir", c.Paths.WorkDir},
		{"paths.mod_root", c.Paths.ModRoot},
		{"paths.module_name", c.Paths.ModuleName},
		{"paths.archive_prefix", c.Paths.ArchivePrefix},
		{"mod.screenshot", c.Mod.Screenshot},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			return fmt.Errorf("config: %s must not be empty", r.key)
		}
	}

	// The staging root is deleted recursively on every run, so it must not
	// hold the project or any build input or output.
	workDir, err := resolve(baseDir, c.Paths.WorkDir)
	if err != nil {
		return err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("config: resolving %q: %w", baseDir, err)
	}
	if within(workDir, base) {
		return fmt.Errorf("config: paths.work_dir %q would delete the project", c.Paths.WorkDir)
	}

	protected := []struct {
		key, val string
	}{
		{"paths.script", c.Paths.Script},
		{"mod.screenshot", c.Mod.Screenshot},
		{"paths.output_dir", c.Paths.OutputDir},
		{"paths.version_record", c.Paths.VersionRecord},
	}
	for _, p := range protected {
		if p.val == "" {
			continue
		}
		target, err := resolve(baseDir, p.val)
		if err != nil {
			return err
		}
		if within(workDir, target) {
			return fmt.Errorf("config: paths.work_dir %q would delete %s %q", c.Paths.WorkDir, p.key, p.val)
		}
	}

	return nil
}

func resolve(baseDir, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("config: resolving %q: %w", path, err)
	}
	return abs, nil
}

// within reports whether path is dir or lies below it. Both must be
// absolute and clean.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ConfigDir returns the user-level configuration directory.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "modpack"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "modpack"), nil
}

// StateDir returns $XDG_STATE_HOME/modpack/ for logs and build history.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "modpack")
}

// DefaultHistoryDir returns the default build history directory.
func DefaultHistoryDir() string {
	return filepath.Join(StateDir(), "history")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "modpack.log")
}

// ProjectConfigPath returns the path of the project config file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ConfigName+".yaml")
}

// WriteDefault writes a default project config file to path.
// Returns nil if a file already exists there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# modpack configuration

# Metadata written to modinfo.ini for Fluffy Mod Manager
mod:
  name: %q
  description: %q
  authors:
    - %q
  # Source image; it is copied into the archive as cover.png
  screenshot: %s
  category: %s
  homepage: %q

# Input, staging and output locations (relative to the project directory)
paths:
  script: %s
  script_name: %s
  # Staging root; deleted and recreated on every build
  work_dir: %s
  mod_root: %s
  module_name: %s
  archive_prefix: %s
  output_dir: %s
  version_record: %s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Optional log file (empty means stderr only), for example:
  # path: %s
  path: ""

# Build history
history:
  enabled: true
  retention_days: %d
`,
		DefaultModName, DefaultDescription, DefaultAuthors[0],
		DefaultScreenshot, DefaultCategory, DefaultHomepage,
		DefaultScriptPath, DefaultScriptName, DefaultWorkDir, DefaultModRoot,
		DefaultModuleName, DefaultArchivePrefix, DefaultOutputDir, DefaultVersionRecord,
		DefaultLogPath(), DefaultRetentionDays)

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
