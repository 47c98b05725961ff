package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syllacal.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("default timezone = %q, want UTC", cfg.Timezone)
	}
	if cfg.DownloadRetries != 3 {
		t.Errorf("default retries = %d, want 3", cfg.DownloadRetries)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("first run should write a default config file: %v", err)
	}
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syllacal.yaml")
	partial := []byte("timezone: America/New_York\ndownload_retries: 0\n")
	if err := os.WriteFile(path, partial, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("timezone = %q", cfg.Timezone)
	}
	if cfg.DownloadRetries != 3 {
		t.Errorf("zero retries should normalize to 3, got %d", cfg.DownloadRetries)
	}
	if len(cfg.TextExtensions) == 0 {
		t.Error("extensions should default when missing")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syllacal.yaml")

	in := DefaultConfig()
	in.Timezone = "Europe/London"
	in.FilterModulesByKeyword = true
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Timezone != "Europe/London" {
		t.Errorf("timezone = %q", out.Timezone)
	}
	if !out.FilterModulesByKeyword {
		t.Error("filter_modules_by_keyword lost in round trip")
	}
}
