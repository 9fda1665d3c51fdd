package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the root.
const FileName = ".envguard.config"

// DefaultSchema is used when the config names no schema file.
const DefaultSchema = "env.schema.yaml"

// Config represents the .envguard.config file
type Config struct {
	Schema      string        `yaml:"schema"`
	Environment string        `yaml:"environment"`
	EnvFiles    []string      `yaml:"env_files"`
	Ignores     IgnoresConfig `yaml:"ignores"`
}

// IgnoresConfig contains ignore rules for environment variables
type IgnoresConfig struct {
	Missing []string `yaml:"missing"` // not reported when missing
	Folders []string `yaml:"folders"` // skipped when scanning code
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Schema: DefaultSchema}
}

// Load reads FileName from root. A missing file yields Default.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Schema == "" {
		cfg.Schema = DefaultSchema
	}
	return cfg, nil
}

// SchemaPath returns the schema file location resolved against root.
func (c *Config) SchemaPath(root string) string {
	if filepath.IsAbs(c.Schema) {
		return c.Schema
	}
	return filepath.Join(root, c.Schema)
}

// ShouldIgnoreMissing checks if a variable should be ignored when reporting as missing
func (c *Config) ShouldIgnoreMissing(key string) bool {
	return slices.Contains(c.Ignores.Missing, key)
}

// Template is written by init-config.
const Template = `# .envguard.config
# Configuration file for envguard

# Schema file describing the expected environment variables.
schema: env.schema.yaml

# Environment name used to select overrides when APP_ENV is not set.
# environment: development

# Extra env files loaded after .env and .env.local (later files win).
env_files:
  # - .env.development

ignores:
  # Variables that are configured in custom ways (secrets managers, CI)
  # These will not be reported as missing
  missing:
    # - CUSTOM_API_KEY

  # Folders to ignore when scanning code
  folders:
    # - k8s
    # - deployments
`

// WriteTemplate creates FileName in dir. It refuses to overwrite.
func WriteTemplate(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%s already exists in %s", FileName, dir)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", FileName, err)
	}
	defer f.Close()
	if _, err := f.WriteString(Template); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return path, nil
}
