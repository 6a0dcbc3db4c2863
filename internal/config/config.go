// Package config loads mailroom settings from defaults, an optional
// mailroom.yaml, and MAILROOM_* environment variables, in ascending
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// OutputDir receives split documents; incomplete ones go to a
	// subdirectory under it.
	OutputDir     string `mapstructure:"output_dir"`
	IncompleteDir string `mapstructure:"incomplete_dir"`

	// OCR settings for scanned sources.
	OCRLanguage string  `mapstructure:"ocr_language"`
	QuickDPI    int     `mapstructure:"quick_dpi"`
	FullDPI     int     `mapstructure:"full_dpi"`
	TopFraction float64 `mapstructure:"top_fraction"`

	// PagesPerDoc drives fixed-size splitting for forced families.
	PagesPerDoc int `mapstructure:"pages_per_doc"`

	// Batch and watch behavior.
	Concurrency   int           `mapstructure:"concurrency"`
	RetryAttempts uint          `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`

	Debug bool `mapstructure:"debug"`
}

// Load reads configuration. An explicit path must exist; otherwise a
// mailroom.yaml in the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("output_dir", "output")
	v.SetDefault("incomplete_dir", "incomplete")
	v.SetDefault("ocr_language", "eng")
	v.SetDefault("quick_dpi", 108)
	v.SetDefault("full_dpi", 144)
	v.SetDefault("top_fraction", 0.30)
	v.SetDefault("pages_per_doc", 7)
	v.SetDefault("concurrency", 4)
	v.SetDefault("retry_attempts", 5)
	v.SetDefault("retry_delay", 2*time.Second)

	v.SetEnvPrefix("MAILROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("mailroom")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.QuickDPI < 36 || c.FullDPI < 36 {
		return fmt.Errorf("dpi settings too low: quick=%d full=%d", c.QuickDPI, c.FullDPI)
	}
	if c.TopFraction <= 0 || c.TopFraction > 1 {
		return fmt.Errorf("top_fraction %v outside (0,1]", c.TopFraction)
	}
	if c.PagesPerDoc < 1 {
		return fmt.Errorf("pages_per_doc %d must be at least 1", c.PagesPerDoc)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency %d must be at least 1", c.Concurrency)
	}
	return nil
}
