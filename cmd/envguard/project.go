package main

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/jenian/envguard"
	"github.com/jenian/envguard/internal/config"
	"github.com/jenian/envguard/internal/schemafile"
)

// project is the resolved working context of a command.
type project struct {
	root   string
	cfg    *config.Config
	schema string // absolute schema file path
}

func loadProject() (*project, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	p := &project{root: root, cfg: cfg, schema: cfg.SchemaPath(root)}
	if schemaPath != "" {
		p.schema, err = filepath.Abs(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("invalid schema path: %w", err)
		}
	}
	logger.Debug("project loaded", "root", root, "schema", p.schema)
	return p, nil
}

// guardian reads and builds the project schema.
func (p *project) guardian() (*envguard.Guardian, error) {
	f, err := schemafile.ReadFile(p.schema)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("schema file %s not found (run `envguard init-schema` to create one)", p.rel(p.schema))
	}
	if err != nil {
		return nil, err
	}
	g, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.rel(p.schema), err)
	}
	g.SetLogger(logger)
	return g, nil
}

// rel shortens path for display.
func (p *project) rel(path string) string {
	if rel, err := filepath.Rel(p.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// declaredKeys lists every key the schema can read, including keys only
// introduced by environment overrides.
func declaredKeys(g *envguard.Guardian) []string {
	keys := g.Keys()
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	overrides := g.Overrides()
	for _, env := range slices.Sorted(maps.Keys(overrides)) {
		for _, fd := range overrides[env] {
			if !seen[fd.Key] {
				seen[fd.Key] = true
				keys = append(keys, fd.Key)
			}
		}
	}
	return keys
}
