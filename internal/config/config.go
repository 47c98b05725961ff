package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration. Credentials are kept
// separately in the env file (internal/creds); this file only holds
// non-secret tunables.
type Config struct {
	// Timezone is the default IANA timezone assumed for due dates without a
	// time of day (e.g. "America/New_York"). The interactive flow can
	// override it per session.
	Timezone string `yaml:"timezone"`

	// OutputDir is where generated .ics files and downloaded source files
	// are written. Defaults to the working directory.
	OutputDir string `yaml:"output_dir"`

	// DownloadRetries is the attempt count for each source file download.
	DownloadRetries int `yaml:"download_retries"`

	// DownloadDelaySeconds is the fixed pause between retry attempts.
	DownloadDelaySeconds int `yaml:"download_delay_seconds"`

	// SyllabusKeywords are the (lowercased) substrings used to spot
	// syllabus-like files and module titles.
	SyllabusKeywords []string `yaml:"syllabus_keywords"`

	// TextExtensions are the filename suffixes considered text-bearing,
	// matched case-insensitively.
	TextExtensions []string `yaml:"text_extensions"`

	// FilterModulesByKeyword restricts the module sweep to modules whose
	// name contains a syllabus keyword. Off by default: the broad sweep
	// finds more material.
	FilterModulesByKeyword bool `yaml:"filter_modules_by_keyword"`

	// Model is the Gemini model used for assignment extraction.
	Model string `yaml:"model"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:             "UTC",
		OutputDir:            ".",
		DownloadRetries:      3,
		DownloadDelaySeconds: 2,
		SyllabusKeywords:     []string{"syllabus", "schedule", "outline"},
		TextExtensions:       []string{".txt", ".pdf", ".docx"},
		Model:                "gemini-2.0-flash",
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.DownloadRetries <= 0 {
		c.DownloadRetries = 3
	}
	if c.DownloadDelaySeconds <= 0 {
		c.DownloadDelaySeconds = 2
	}
	if len(c.SyllabusKeywords) == 0 {
		c.SyllabusKeywords = []string{"syllabus", "schedule", "outline"}
	}
	if len(c.TextExtensions) == 0 {
		c.TextExtensions = []string{".txt", ".pdf", ".docx"}
	}
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: write a default config with 0600 perms
//     (creating the parent directory if needed) and return the default.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".syllacal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
