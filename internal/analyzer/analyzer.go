package analyzer

import (
	"path"
	"slices"

	"github.com/jenian/envguard/internal/usage"
)

// Ignorer decides which undeclared keys are expected to be absent from
// the schema.
type Ignorer interface {
	ShouldIgnoreMissing(key string) bool
}

// Analyze compares code usages with the declared schema keys.
//
// A static lookup of an undeclared key is reported unless every lookup
// sits in an ignored folder or the ignorer accepts the key. A declared
// key counts as referenced when a static lookup names it or a dynamic
// lookup's pattern matches it. Variable references can never be
// resolved and are always reported as dynamic.
func Analyze(usages []usage.Usage, declared []string, ign Ignorer) Result {
	result := Result{
		Usages:       usages,
		Declared:     declared,
		Undeclared:   make(map[string][]usage.Usage),
		Unreferenced: []string{},
		Dynamic:      make(map[string][]usage.Usage),
	}

	isDeclared := make(map[string]bool, len(declared))
	for _, key := range declared {
		isDeclared[key] = true
	}

	static := make(map[string][]usage.Usage)
	dynamic := make(map[string][]usage.Usage)
	for _, u := range usages {
		if u.Kind == usage.Static {
			static[u.Key] = append(static[u.Key], u)
		} else {
			dynamic[u.Key] = append(dynamic[u.Key], u)
		}
	}

	for key, found := range static {
		if isDeclared[key] {
			continue
		}
		active := slices.DeleteFunc(slices.Clone(found), func(u usage.Usage) bool { return u.Ignored })
		switch {
		case len(active) == 0:
			result.IgnoredFromFolders++
		case ign != nil && ign.ShouldIgnoreMissing(key):
			result.IgnoredMissing++
		default:
			result.Undeclared[key] = active
		}
	}

	referenced := make(map[string]bool, len(static))
	for key := range static {
		referenced[key] = true
	}
	for key, found := range dynamic {
		pattern := found[0].Pattern
		if found[0].Kind == usage.VarRef || pattern == "" {
			result.Dynamic[key] = found
			continue
		}
		matched := false
		for _, d := range declared {
			if ok, _ := path.Match(pattern, d); ok {
				referenced[d] = true
				matched = true
			}
		}
		if !matched {
			result.Dynamic[key] = found
		}
	}

	for _, key := range declared {
		if !referenced[key] {
			result.Unreferenced = append(result.Unreferenced, key)
		}
	}
	return result
}
