// Package config handles configuration loading and defaults.
//
// Precedence, lowest to highest: built-in defaults, the project file
// (planloop.toml in the working directory), PLANLOOP_* environment
// variables, then CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ProjectConfigName is the per-project configuration file name.
const ProjectConfigName = "planloop.toml"

// Default values.
const (
	DefaultPlanFile  = "PLAN.md"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for planloop.
type Config struct {
	// PlanFile is the plan document path, relative to the working
	// directory unless absolute.
	PlanFile string `toml:"plan_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"` // text, logfmt, or json
	LogTimestamps bool   `toml:"log_timestamps"`

	// WorkDir is the resolved working directory (computed).
	WorkDir string `toml:"-"`
}

// Default returns a config populated with built-in defaults.
func Default() *Config {
	return &Config{
		PlanFile:  DefaultPlanFile,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Load builds the configuration from defaults, the project file,
// environment variables, and flags, in that order. The flag set is
// parsed as part of loading.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	cfg.WorkDir = wd

	if err := loadProjectFile(cfg, filepath.Join(wd, ProjectConfigName)); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	bindFlags(cfg, fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PlanPath returns the absolute plan file path.
func (c *Config) PlanPath() string {
	if filepath.IsAbs(c.PlanFile) {
		return c.PlanFile
	}
	return filepath.Join(c.WorkDir, c.PlanFile)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.PlanFile) == "" {
		return fmt.Errorf("plan_file must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "logfmt", "json":
	default:
		return fmt.Errorf("log_format %q must be text, logfmt, or json", c.LogFormat)
	}
	return nil
}

// loadProjectFile merges the project TOML file into cfg. A missing file
// is fine.
func loadProjectFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg from PLANLOOP_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PLANLOOP_PLAN_FILE"); v != "" {
		cfg.PlanFile = v
	}
	if v := os.Getenv("PLANLOOP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PLANLOOP_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("PLANLOOP_LOG_TIMESTAMPS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogTimestamps = b
		}
	}
}

// bindFlags defines CLI flags backed by cfg fields.
func bindFlags(cfg *Config, fs *flag.FlagSet) {
	fs.StringVar(&cfg.PlanFile, "plan", cfg.PlanFile, "Path to plan file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, logfmt, json)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
}
