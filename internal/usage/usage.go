// Package usage finds environment variable lookups in source code with
// tree-sitter.
package usage

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jenian/envguard/internal/scanner"
)

// Kind tells how precisely a lookup names its variable.
type Kind string

const (
	// Static lookups use a literal key: os.Getenv("PORT").
	Static Kind = "static"
	// Dynamic lookups build the key from an expression: "DB_" + name.
	Dynamic Kind = "dynamic"
	// VarRef lookups pass a variable: os.Getenv(key).
	VarRef Kind = "var_ref"
)

// Usage is one environment lookup found in code.
type Usage struct {
	Key     string `json:"key"` // literal key, expression text or variable name
	Kind    Kind   `json:"kind"`
	Pattern string `json:"pattern,omitempty"` // glob such as DB_* for dynamic keys
	File    string `json:"file"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
	Ignored bool   `json:"ignored,omitempty"`
}

// Extractor parses source files and collects their lookups. It is safe
// for concurrent use.
type Extractor struct {
	logger  *slog.Logger
	workers int

	mu        sync.Mutex
	languages map[scanner.Language]*sitter.Language
}

// NewExtractor returns an extractor that logs parse problems to logger.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		logger:    logger,
		workers:   10,
		languages: make(map[scanner.Language]*sitter.Language),
	}
}

func (e *Extractor) language(lang scanner.Language) (*sitter.Language, grammar, error) {
	g, ok := grammars[lang]
	if !ok {
		return nil, grammar{}, fmt.Errorf("unsupported language: %s", lang)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.languages[lang]; ok {
		return l, g, nil
	}
	l := sitter.NewLanguage(g.language())
	e.languages[lang] = l
	return l, g, nil
}

// ExtractFile reads f and returns its lookups in source order.
func (e *Extractor) ExtractFile(f scanner.File) ([]Usage, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", f.Path, err)
	}
	usages, err := e.Extract(f.Language, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Rel, err)
	}
	for i := range usages {
		usages[i].File = f.Rel
		usages[i].Ignored = f.Ignored
	}
	return usages, nil
}

// Extract returns the lookups in content. File fields are left empty.
func (e *Extractor) Extract(lang scanner.Language, content []byte) ([]Usage, error) {
	language, g, err := e.language(lang)
	if err != nil {
		return nil, err
	}

	// parsers are not safe for concurrent use, so each call gets its own
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", lang, err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", lang)
	}
	defer tree.Close()

	query, qerr := sitter.NewQuery(language, strings.TrimSpace(g.query))
	if qerr != nil {
		return nil, fmt.Errorf("invalid %s query: %v", lang, qerr)
	}
	defer query.Close()
	names := query.CaptureNames()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	matches := cursor.Matches(query, tree.RootNode(), content)

	var usages []Usage
	seen := make(map[string]bool)
	for m := matches.Next(); m != nil; m = matches.Next() {
		c := make(captures, len(m.Captures))
		var arg *sitter.Node
		for i := range m.Captures {
			capture := &m.Captures[i]
			name := names[capture.Index]
			c[name] = string(content[capture.Node.StartByte():capture.Node.EndByte()])
			if name == "key" || name == "expr" || name == "var" {
				arg = &capture.Node
			}
		}
		if arg == nil || !g.accept(c) {
			continue
		}

		u, ok := classify(c)
		if !ok {
			continue
		}
		row := arg.StartPosition().Row
		u.Line = int(row) + 1
		u.Snippet = lineAt(content, row)

		dedupe := fmt.Sprintf("%s:%s:%d", u.Kind, u.Key, u.Line)
		if seen[dedupe] {
			continue
		}
		seen[dedupe] = true
		e.logger.Debug("env lookup", "language", lang, "line", u.Line, "key", u.Key, "kind", u.Kind)
		usages = append(usages, u)
	}
	return usages, nil
}

func classify(c captures) (Usage, bool) {
	if key, ok := c["key"]; ok {
		key = trimQuotes(key)
		return Usage{Key: key, Kind: Static}, key != ""
	}
	if expr, ok := c["expr"]; ok {
		return Usage{Key: expr, Kind: Dynamic, Pattern: patternOf(expr)}, true
	}
	if name, ok := c["var"]; ok {
		return Usage{Key: name, Kind: VarRef}, true
	}
	return Usage{}, false
}

// patternOf turns a concatenation into a glob from its leading or
// trailing string literal: "DB_" + name gives DB_*, name + "_URL" gives
// *_URL. It returns "" when the expression has neither.
func patternOf(expr string) string {
	expr = strings.TrimSpace(expr)
	if lit, ok := leadingLiteral(expr); ok && lit != "" {
		return lit + "*"
	}
	if lit, ok := trailingLiteral(expr); ok && lit != "" {
		return "*" + lit
	}
	return ""
}

func isQuote(b byte) bool { return b == '"' || b == '\'' || b == '`' }

func leadingLiteral(expr string) (string, bool) {
	if expr == "" || !isQuote(expr[0]) {
		return "", false
	}
	end := strings.IndexByte(expr[1:], expr[0])
	if end < 0 {
		return "", false
	}
	return expr[1 : end+1], true
}

func trailingLiteral(expr string) (string, bool) {
	n := len(expr)
	if n == 0 || !isQuote(expr[n-1]) {
		return "", false
	}
	start := strings.LastIndexByte(expr[:n-1], expr[n-1])
	if start < 0 {
		return "", false
	}
	return expr[start+1 : n-1], true
}

func trimQuotes(s string) string {
	if len(s) >= 2 && isQuote(s[0]) && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func lineAt(content []byte, row uint) string {
	lines := strings.SplitN(string(content), "\n", int(row)+2)
	if int(row) >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[row])
}

// ExtractAll parses files with a bounded worker pool. Files that fail to
// parse are logged and skipped. The result is ordered by file and line.
func (e *Extractor) ExtractAll(files []scanner.File) []Usage {
	var (
		all     []Usage
		wg      sync.WaitGroup
		mu      sync.Mutex
		workers = make(chan struct{}, e.workers)
	)
	for _, f := range files {
		wg.Add(1)
		workers <- struct{}{}
		go func(f scanner.File) {
			defer wg.Done()
			defer func() { <-workers }()

			usages, err := e.ExtractFile(f)
			if err != nil {
				e.logger.Warn("failed to parse file", "file", f.Rel, "error", err)
				return
			}
			mu.Lock()
			all = append(all, usages...)
			mu.Unlock()
		}(f)
	}
	wg.Wait()

	slices.SortStableFunc(all, func(a, b Usage) int {
		return cmp.Or(
			strings.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			strings.Compare(a.Key, b.Key),
		)
	})
	return all
}

// Keys returns the distinct static keys in usages, sorted.
func Keys(usages []Usage) []string {
	var keys []string
	for _, u := range usages {
		if u.Kind == Static {
			keys = append(keys, u.Key)
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
