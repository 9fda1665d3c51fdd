package envguard

import (
	"os"
	"strings"
)

// EnvironmentVar names the variable consulted for the active environment
// name when no WithEnvironment option is given.
const EnvironmentVar = "APP_ENV"

// Snapshot is the source of raw variable values for one parse.
type Snapshot map[string]string

// FromProcess captures the current process environment.
func FromProcess() Snapshot {
	return FromEnviron(os.Environ())
}

// FromEnviron builds a Snapshot from KEY=VALUE pairs as returned by
// os.Environ. Later duplicates win; entries without "=" are skipped.
func FromEnviron(environ []string) Snapshot {
	s := make(Snapshot, len(environ))
	for _, pair := range environ {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		s[k] = v
	}
	return s
}

// Lookup returns the raw value for key. Absent and empty values both
// report ("", false).
func (s Snapshot) Lookup(key string) (string, bool) {
	v := s[key]
	return v, v != ""
}

// Merge returns a new Snapshot with other layered over s.
func (s Snapshot) Merge(other Snapshot) Snapshot {
	out := make(Snapshot, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
