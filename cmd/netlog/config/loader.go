// loader.go — Configuration loading with priority cascade.
// Priority: defaults < global config < project config < env vars < flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/dev-console/netlog/internal/debugger"
	"github.com/dev-console/netlog/internal/logging"
	"github.com/dev-console/netlog/internal/state"
)

const (
	// ProjectFile is read from the working directory.
	ProjectFile = ".netlog.yaml"
	// EnvPrefix prefixes every environment override (NETLOG_FORMAT, ...).
	EnvPrefix = "netlog"
)

// Config holds all resolved configuration values.
type Config struct {
	RemoteURL string        `yaml:"remote_url" json:"remote_url"`
	Tab       string        `yaml:"tab" json:"tab,omitempty"`
	OutputDir string        `yaml:"output_dir" json:"output_dir"`
	Format    string        `yaml:"format" json:"format"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
	Launch    bool          `yaml:"launch" json:"launch"`
	Headless  bool          `yaml:"headless" json:"headless"`
	URL       string        `yaml:"url" json:"url,omitempty"`
	LogLevel  string        `yaml:"log_level" json:"log_level"`
	LogDev    bool          `yaml:"log_dev" json:"log_dev"`
}

// Overrides holds values set by one configuration layer.
// Nil pointer means the layer did not set the value (so lower-priority values are kept).
// The same shape is read from YAML files, NETLOG_* variables and flags.
type Overrides struct {
	RemoteURL *string        `yaml:"remote_url" envconfig:"REMOTE_URL"`
	Tab       *string        `yaml:"tab" envconfig:"TAB"`
	OutputDir *string        `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	Format    *string        `yaml:"format" envconfig:"FORMAT"`
	Duration  *time.Duration `yaml:"duration" envconfig:"DURATION"`
	Launch    *bool          `yaml:"launch" envconfig:"LAUNCH"`
	Headless  *bool          `yaml:"headless" envconfig:"HEADLESS"`
	URL       *string        `yaml:"url" envconfig:"URL"`
	LogLevel  *string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogDev    *bool          `yaml:"log_dev" envconfig:"LOG_DEV"`
}

// Defaults returns the base configuration with sensible defaults.
// OutputDir stays empty until Load resolves the downloads directory.
func Defaults() Config {
	return Config{
		RemoteURL: debugger.DefaultRemoteURL,
		Format:    "human",
		Headless:  true,
		LogLevel:  "info",
	}
}

// Load builds the final configuration by applying the priority cascade:
// defaults < global (<state root>/config.yaml) < project (.netlog.yaml) < env vars < flags.
func Load(projectDir string, flags *Overrides) (Config, error) {
	cfg := Defaults()

	if path, err := state.GlobalConfigFile(); err == nil {
		if err := loadFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("global config: %w", err)
		}
	}

	if err := loadProjectConfig(&cfg, projectDir); err != nil {
		return cfg, fmt.Errorf("project config: %w", err)
	}

	if err := loadEnvVars(&cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if flags != nil {
		flags.apply(&cfg)
	}

	if cfg.OutputDir == "" {
		dir, err := state.DownloadsDir()
		if err != nil {
			return cfg, err
		}
		cfg.OutputDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadProjectConfig reads .netlog.yaml from the given directory if it exists.
func loadProjectConfig(cfg *Config, dir string) error {
	return loadFile(cfg, filepath.Join(dir, ProjectFile))
}

// loadFile reads a YAML (or JSON) config file and merges the fields it sets into cfg.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	o.apply(cfg)
	return nil
}

// loadEnvVars applies NETLOG_* environment overrides.
func loadEnvVars(cfg *Config) error {
	var o Overrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return err
	}
	o.apply(cfg)
	return nil
}

func (o *Overrides) apply(cfg *Config) {
	if o.RemoteURL != nil {
		cfg.RemoteURL = *o.RemoteURL
	}
	if o.Tab != nil {
		cfg.Tab = *o.Tab
	}
	if o.OutputDir != nil {
		cfg.OutputDir = *o.OutputDir
	}
	if o.Format != nil {
		cfg.Format = *o.Format
	}
	if o.Duration != nil {
		cfg.Duration = *o.Duration
	}
	if o.Launch != nil {
		cfg.Launch = *o.Launch
	}
	if o.Headless != nil {
		cfg.Headless = *o.Headless
	}
	if o.URL != nil {
		cfg.URL = *o.URL
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.LogDev != nil {
		cfg.LogDev = *o.LogDev
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c Config) Validate() error {
	validFormats := map[string]bool{"human": true, "json": true, "csv": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("format must be human, json, or csv, got %q", c.Format)
	}

	if !c.Launch && !isHTTP(c.RemoteURL) {
		return fmt.Errorf("remote_url must be an http(s) DevTools endpoint, got %q", c.RemoteURL)
	}

	if c.URL != "" && !isHTTP(c.URL) {
		return fmt.Errorf("url must be http(s), got %q", c.URL)
	}
	if c.Launch && c.URL == "" {
		return fmt.Errorf("launch requires url")
	}

	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Duration)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

func isHTTP(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
