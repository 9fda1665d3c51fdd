package scanner

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Language represents a programming language
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageUnknown    Language = "unknown"
)

// Languages lists the supported languages in report order.
var Languages = []Language{
	LanguageJavaScript, LanguageTypeScript, LanguageGo,
	LanguagePython, LanguageRust, LanguageJava,
}

// DetectLanguage determines the language from a file extension.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".rs":
		return LanguageRust
	case ".java":
		return LanguageJava
	}
	return LanguageUnknown
}

// File is a source file selected for usage extraction.
type File struct {
	Path     string // absolute
	Rel      string // relative to the scan root, slash separated
	Language Language
	Ignored  bool // inside a configured ignore folder
}

// Scanner handles file discovery and filtering
type Scanner struct {
	excludeDirs  map[string]bool
	ignoredPaths []string
	excludeGlobs []string
	includeGlobs []string
}

// New creates a scanner with the default directory exclusions.
func New() *Scanner {
	s := &Scanner{excludeDirs: make(map[string]bool)}
	for _, dir := range []string{
		"node_modules", "vendor", ".git", "build", "dist", "bin",
		"out", ".next", ".cache", "target", "__pycache__", ".venv",
	} {
		s.excludeDirs[dir] = true
	}
	return s
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// SetIncludeGlobs sets glob patterns to include; when set, excludes are
// not consulted.
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// IgnoreFolders marks folders whose files are still scanned but flagged
// as Ignored. A bare name ("config") is skipped entirely wherever it
// appears; a path ("src/config" or "k8s/*") is matched from the root.
func (s *Scanner) IgnoreFolders(dirs []string) {
	for _, dir := range dirs {
		dir = filepath.ToSlash(dir)
		if strings.Contains(dir, "/") {
			dir = strings.TrimSuffix(strings.TrimSuffix(dir, "/*"), "/")
			s.ignoredPaths = append(s.ignoredPaths, strings.TrimPrefix(dir, "./"))
			continue
		}
		s.excludeDirs[dir] = true
	}
}

func matchesGlob(rel string, globs []string) bool {
	for _, glob := range globs {
		if ok, _ := filepath.Match(glob, filepath.Base(rel)); ok {
			return true
		}
		if ok, _ := filepath.Match(glob, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) selected(rel string) bool {
	if len(s.includeGlobs) > 0 {
		return matchesGlob(rel, s.includeGlobs)
	}
	return !matchesGlob(rel, s.excludeGlobs)
}

func (s *Scanner) ignored(rel string) bool {
	return slices.ContainsFunc(s.ignoredPaths, func(p string) bool {
		return rel == p || strings.HasPrefix(rel, p+"/")
	})
}

// Scan walks root and returns the source files of supported languages
// in lexical order.
func (s *Scanner) Scan(root string) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && s.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		lang := DetectLanguage(path)
		if lang == LanguageUnknown {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !s.selected(rel) {
			return nil
		}
		files = append(files, File{
			Path:     path,
			Rel:      rel,
			Language: lang,
			Ignored:  s.ignored(rel),
		})
		return nil
	})
	return files, err
}

// CountByLanguage tallies files per language.
func CountByLanguage(files []File) map[Language]int {
	counts := make(map[Language]int)
	for _, f := range files {
		counts[f.Language]++
	}
	return counts
}
