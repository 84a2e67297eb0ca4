package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"

	"github.com/jchantrell/wmset/internal/export"
	"github.com/jchantrell/wmset/internal/wmset"
)

type Config struct {
	Output         string   `mapstructure:"output"`
	Database       string   `mapstructure:"database"`
	Formats        []string `mapstructure:"formats"`
	ScriptSections []int    `mapstructure:"script_sections"`
	Workers        int      `mapstructure:"workers"`
	VertexScale    float64  `mapstructure:"vertex_scale"`
	TextureScale   int      `mapstructure:"texture_scale"`
	TextTables     []string `mapstructure:"text_tables"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("output", "")
	v.SetDefault("database", "")
	v.SetDefault("formats", export.Formats)
	v.SetDefault("script_sections", wmset.DefaultScriptSections)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("vertex_scale", 100.0)
	v.SetDefault("texture_scale", 1)
	v.SetDefault("text_tables", []string{})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Config file handling
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName("wmset")
		v.SetConfigType("yaml")
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that may have come from a file or from flags
func (c *Config) Validate() error {
	if err := validateFormats(c.Formats); err != nil {
		return fmt.Errorf("invalid format configuration: %w", err)
	}

	if err := validateScriptSections(c.ScriptSections); err != nil {
		return fmt.Errorf("invalid script section configuration: %w", err)
	}

	if err := validateTextTables(c.TextTables); err != nil {
		return fmt.Errorf("invalid text table configuration: %w", err)
	}

	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}

	if c.VertexScale <= 0 {
		return fmt.Errorf("vertex_scale must be positive, got %v", c.VertexScale)
	}

	if c.TextureScale < 1 {
		c.TextureScale = 1
	}

	return nil
}

// Layout builds the section layout for the configured script sections
func (c *Config) Layout() (*wmset.Layout, error) {
	return wmset.NewLayout(c.ScriptSections)
}
