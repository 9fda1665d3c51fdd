// Package schemafile reads declarative environment schemas from YAML,
// JSON, JSONC and TOML files and builds an envguard.Guardian from them.
//
// A schema file lists top-level variables, prefixed groups and
// per-environment overrides:
//
//	variables:
//	  - name: PORT
//	    type: int
//	    port: true
//	    default: 3000
//	groups:
//	  - name: db
//	    prefix: DB_
//	    variables:
//	      - name: HOST
//	environments:
//	  production:
//	    - name: LOG_LEVEL
//	      type: enum
//	      values: [warn, error]
package schemafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File is the decoded form of a schema file.
type File struct {
	Variables    []Variable            `mapstructure:"variables" yaml:"variables,omitempty"`
	Groups       []Group               `mapstructure:"groups" yaml:"groups,omitempty"`
	Environments map[string][]Variable `mapstructure:"environments" yaml:"environments,omitempty"`
}

// Group declares a prefixed namespace of variables.
type Group struct {
	Name         string                `mapstructure:"name" yaml:"name"`
	Prefix       string                `mapstructure:"prefix" yaml:"prefix,omitempty"`
	Variables    []Variable            `mapstructure:"variables" yaml:"variables"`
	Environments map[string][]Variable `mapstructure:"environments" yaml:"environments,omitempty"`
}

// Variable declares one environment variable. Constraint fields apply
// only to the types that support them.
type Variable struct {
	Name        string   `mapstructure:"name" yaml:"name"`
	Type        string   `mapstructure:"type" yaml:"type,omitempty"`
	Description string   `mapstructure:"description" yaml:"description,omitempty"`
	Optional    bool     `mapstructure:"optional" yaml:"optional,omitempty"`
	Default     any      `mapstructure:"default" yaml:"default,omitempty"`
	Min         *float64 `mapstructure:"min" yaml:"min,omitempty"`
	Max         *float64 `mapstructure:"max" yaml:"max,omitempty"`
	Length      *int     `mapstructure:"length" yaml:"length,omitempty"`
	Pattern     string   `mapstructure:"pattern" yaml:"pattern,omitempty"`
	Positive    bool     `mapstructure:"positive" yaml:"positive,omitempty"`
	Integer     bool     `mapstructure:"integer" yaml:"integer,omitempty"`
	Port        bool     `mapstructure:"port" yaml:"port,omitempty"`
	Protocols   []string `mapstructure:"protocols" yaml:"protocols,omitempty"`
	Values      []string `mapstructure:"values" yaml:"values,omitempty"`
}

// ReadFile reads and decodes the schema file at path. The format is
// chosen by extension: .yaml/.yml, .json/.jsonc or .toml.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the format named by ext (with or without the
// leading dot).
func Parse(data []byte, ext string) (*File, error) {
	raw := make(map[string]any)
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case "json", "jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported schema format %q", ext)
	}

	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &f,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &f, nil
}

// Marshal renders f as YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
