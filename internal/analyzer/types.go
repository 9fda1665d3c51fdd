package analyzer

import "github.com/jenian/envguard/internal/usage"

// Result contains the complete analysis of code usages against a schema.
type Result struct {
	Usages       []usage.Usage            `json:"-"`
	Declared     []string                 `json:"declared"`
	Undeclared   map[string][]usage.Usage `json:"undeclared"`   // used in code, absent from the schema
	Unreferenced []string                 `json:"unreferenced"` // declared but never looked up
	Dynamic      map[string][]usage.Usage `json:"dynamic"`      // lookups whose key is only known at runtime

	IgnoredMissing     int `json:"ignored_missing"`      // undeclared keys listed in ignores.missing
	IgnoredFromFolders int `json:"ignored_from_folders"` // undeclared keys only used in ignored folders
}

// HasIssues reports whether the result should fail a scan. Dynamic
// lookups count only when includeDynamic is set.
func (r Result) HasIssues(skipUnreferenced, includeDynamic bool) bool {
	if len(r.Undeclared) > 0 {
		return true
	}
	if !skipUnreferenced && len(r.Unreferenced) > 0 {
		return true
	}
	return includeDynamic && len(r.Dynamic) > 0
}
