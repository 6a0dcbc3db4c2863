package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want output", cfg.OutputDir)
	}
	if cfg.QuickDPI != 108 || cfg.FullDPI != 144 {
		t.Errorf("DPI = %d/%d, want 108/144", cfg.QuickDPI, cfg.FullDPI)
	}
	if cfg.PagesPerDoc != 7 {
		t.Errorf("PagesPerDoc = %d, want 7", cfg.PagesPerDoc)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mailroom.yaml")
	yaml := "output_dir: /srv/mailroom/out\nconcurrency: 2\nocr_language: eng+fra\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "/srv/mailroom/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", cfg.Concurrency)
	}
	if cfg.OCRLanguage != "eng+fra" {
		t.Errorf("OCRLanguage = %q", cfg.OCRLanguage)
	}
	// Unset keys keep their defaults.
	if cfg.FullDPI != 144 {
		t.Errorf("FullDPI = %d, want 144", cfg.FullDPI)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"tiny dpi", func(c *Config) { c.QuickDPI = 10 }},
		{"bad fraction", func(c *Config) { c.TopFraction = 1.5 }},
		{"zero pages per doc", func(c *Config) { c.PagesPerDoc = 0 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
