package envfile

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jenian/envguard"
)

// DefaultFiles are loaded, in order, when they exist.
var DefaultFiles = []string{".env", ".env.local"}

// Loader loads environment files from a project directory.
type Loader struct {
	files      []string
	autoDetect bool
	logger     *slog.Logger
}

// NewLoader creates a loader for DefaultFiles with auto-detection on.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		files:      slices.Clone(DefaultFiles),
		autoDetect: true,
		logger:     logger,
	}
}

// SetAutoDetect enables or disables discovery of additional env sources
// (.envrc, .env.*, compose, k8s, systemd and shell files) in the root.
func (l *Loader) SetAutoDetect(enabled bool) {
	l.autoDetect = enabled
}

// AddFiles appends explicit files. They are loaded after the defaults
// and after auto-detected files, so they take precedence.
func (l *Loader) AddFiles(paths ...string) {
	l.files = append(l.files, paths...)
}

// Sources returns the files Load would read, in load order.
func (l *Loader) Sources(root string) ([]string, error) {
	var found []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			found = append(found, path)
		}
	}

	resolve := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(root, name)
	}

	for _, name := range DefaultFiles {
		if slices.Contains(l.files, name) && exists(resolve(name)) {
			add(resolve(name))
		}
	}

	if l.autoDetect {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !autoDetectable(entry.Name()) {
				continue
			}
			add(filepath.Join(root, entry.Name()))
		}
	}

	for _, name := range l.files {
		if slices.Contains(DefaultFiles, name) {
			continue
		}
		path := resolve(name)
		if !exists(path) {
			return nil, fmt.Errorf("env file %s: %w", path, fs.ErrNotExist)
		}
		// explicit files move to the end so they win
		if seen[path] {
			found = slices.DeleteFunc(found, func(p string) bool { return p == path })
			delete(seen, path)
		}
		add(path)
	}
	return found, nil
}

// autoDetectable reports whether a file in the project root looks like
// an environment source worth loading. Example and template files are
// skipped since they hold placeholders.
func autoDetectable(name string) bool {
	if slices.Contains(DefaultFiles, name) {
		return false
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "example") || strings.Contains(lower, "sample") || strings.Contains(lower, "template") {
		return false
	}
	switch Detect(name) {
	case FormatEnvrc, FormatCompose, FormatK8s, FormatSystemd:
		return true
	case FormatShell:
		return true
	case FormatDotEnv:
		return strings.HasPrefix(name, ".env.")
	}
	return false
}

// Load reads every source under root and merges them into one snapshot.
// Later files override earlier ones.
func (l *Loader) Load(root string) (envguard.Snapshot, error) {
	paths, err := l.Sources(root)
	if err != nil {
		return nil, err
	}
	snapshot := envguard.Snapshot{}
	for _, path := range paths {
		vars, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded env file", "path", path, "format", Detect(path), "vars", len(vars))
		snapshot = snapshot.Merge(vars)
	}
	return snapshot, nil
}

// LoadWithExportedEnv is Load with the exported variables in environ
// (os.Environ form) layered on top, the way a process started from the
// shell would see them.
func (l *Loader) LoadWithExportedEnv(root string, environ []string) (envguard.Snapshot, error) {
	snapshot, err := l.Load(root)
	if err != nil {
		return nil, err
	}
	return snapshot.Merge(envguard.FromEnviron(environ)), nil
}

// ParseFile parses a single env source, choosing the parser by name.
func ParseFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars, err := Parse(Detect(path), f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return vars, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
