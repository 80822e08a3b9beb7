// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. Run settings come from
// CLI flags; everything else from the config file and VISITQA_* environment
// variables.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	Document  DocumentConfig  `mapstructure:"document" yaml:"document"`
	Run       RunConfig       `mapstructure:"-" yaml:"-"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// GeneratorConfig configures the text-generation backend.
type GeneratorConfig struct {
	Model        string        `mapstructure:"model" yaml:"model"`
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxTokens    int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
}

// DocumentConfig configures the browser-bound document adapter.
type DocumentConfig struct {
	WorkbookURL       string        `mapstructure:"workbook_url" yaml:"workbook_url"`
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// LeaveOpen keeps the workbook open after a run for manual inspection.
	LeaveOpen bool `mapstructure:"leave_open" yaml:"leave_open"`
}

// RunConfig carries the per-invocation settings resolved from CLI flags.
// It is copied by value into the runner and never mutated afterwards.
type RunConfig struct {
	Scenario         string
	Speed            string
	Seed             int64
	OutputDir        string
	ItineraryPath    string
	UpdatedItinerary string
	RedFlagCount     int
	ScenarioFile     string
}

// SetDefaults registers the default configuration values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "visitqa")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("generator.model", "llama3:8b")
	v.SetDefault("generator.base_url", "http://localhost:11434")
	v.SetDefault("generator.timeout", 30*time.Second)
	v.SetDefault("generator.max_tokens", 300)
	v.SetDefault("generator.probe_timeout", 2*time.Second)

	v.SetDefault("document.headless", false)
	v.SetDefault("document.navigation_timeout", 45*time.Second)
	v.SetDefault("document.leave_open", true)
	// Registered empty so env-only overrides are picked up by Unmarshal,
	// which only walks keys viper already knows about.
	v.SetDefault("document.workbook_url", "")
}

// Load unmarshals the fully merged viper state into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
