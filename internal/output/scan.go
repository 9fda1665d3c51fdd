package output

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/scanner"
	"github.com/jenian/envguard/internal/usage"
)

// ScanOptions selects which scan findings are shown.
type ScanOptions struct {
	SkipUnreferenced bool
	Dynamic          bool
}

// Location is one place a key is looked up.
type Location struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet,omitempty"`
}

// KeyLocations groups the lookups of one key.
type KeyLocations struct {
	Key       string     `json:"key"`
	Locations []Location `json:"locations"`
}

type scanJSON struct {
	Undeclared         []KeyLocations `json:"undeclared"`
	Dynamic            []KeyLocations `json:"dynamic"`
	Unreferenced       []string       `json:"unreferenced"`
	IgnoredMissing     int            `json:"ignored_missing"`
	IgnoredFromFolders int            `json:"ignored_from_folders"`
}

func grouped(m map[string][]usage.Usage) []KeyLocations {
	out := make([]KeyLocations, 0, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		kl := KeyLocations{Key: key}
		for _, u := range m[key] {
			kl.Locations = append(kl.Locations, Location{File: u.File, Line: u.Line, Snippet: u.Snippet})
		}
		out = append(out, kl)
	}
	return out
}

// ScanSummary describes the scanned files per language.
func ScanSummary(files []scanner.File) string {
	counts := scanner.CountByLanguage(files)
	var parts []string
	for _, lang := range scanner.Languages {
		if n := counts[lang]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", shortName(lang), n))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Found %d files to parse", len(files))
	}
	return fmt.Sprintf("Found %d files (%s)", len(files), strings.Join(parts, ", "))
}

func shortName(lang scanner.Language) string {
	switch lang {
	case scanner.LanguageJavaScript:
		return "js"
	case scanner.LanguageTypeScript:
		return "ts"
	}
	return string(lang)
}

// Scan renders a code scan compared against the schema.
func (p *Printer) Scan(r analyzer.Result, opts ScanOptions) error {
	out := scanJSON{
		Undeclared:         grouped(r.Undeclared),
		Dynamic:            []KeyLocations{},
		Unreferenced:       []string{},
		IgnoredMissing:     r.IgnoredMissing,
		IgnoredFromFolders: r.IgnoredFromFolders,
	}
	if opts.Dynamic {
		out.Dynamic = grouped(r.Dynamic)
	}
	if !opts.SkipUnreferenced {
		out.Unreferenced = slices.Sorted(slices.Values(r.Unreferenced))
	}
	if p.json {
		return p.encode(out)
	}

	if len(out.Undeclared) > 0 {
		p.printf("%s\n\n", p.heading("Undeclared environment variables:", red))
		p.locations(out.Undeclared, red)
	}
	if len(out.Dynamic) > 0 {
		p.printf("%s\n\n", p.heading("Dynamic lookups (runtime-evaluated keys):", yellow))
		p.locations(out.Dynamic, yellow)
	}
	if len(out.Unreferenced) > 0 {
		p.printf("%s\n\n", p.heading("Declared but never referenced:", yellow))
		for _, key := range out.Unreferenced {
			p.printf("  %s\n", p.paint(key, yellow))
		}
		p.printf("\n")
	}

	if r.IgnoredMissing > 0 {
		p.printf("%s %d undeclared variable(s) were ignored (configured in .envguard.config)\n",
			p.heading("Note:", gray), r.IgnoredMissing)
	}
	if r.IgnoredFromFolders > 0 {
		p.printf("%s %d variable(s) found only in ignored folders were excluded\n",
			p.heading("Note:", gray), r.IgnoredFromFolders)
	}
	if r.IgnoredMissing > 0 || r.IgnoredFromFolders > 0 {
		p.printf("\n")
	}

	if !r.HasIssues(opts.SkipUnreferenced, opts.Dynamic) {
		p.printf("%s\n", p.heading("✓ No issues found. Code and schema agree.", green))
	}
	return nil
}

func (p *Printer) locations(groups []KeyLocations, color string) {
	for _, g := range groups {
		p.printf("  %s\n", p.paint(g.Key, color))
		for _, loc := range g.Locations {
			p.printf("    %s %s:%s", p.paint("used in:", gray), p.paint(loc.File, cyan), p.paint(fmt.Sprint(loc.Line), yellow))
			if loc.Snippet != "" {
				p.printf(" %s", p.paint(truncate(loc.Snippet, 80), gray))
			}
			p.printf("\n")
		}
		p.printf("\n")
	}
}
