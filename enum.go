package envguard

import (
	"fmt"
	"slices"
	"strings"
)

// Enum returns a required validator accepting exactly one of values.
// Matching is case-sensitive.
func Enum(values ...string) Validator[string] {
	allowed := slices.Clone(values)
	kind := fmt.Sprintf("enum(%s)", strings.Join(allowed, " | "))
	return New(kind, func(raw string) Result[string] {
		if r, missing := required[string](raw); missing {
			return r
		}
		if !slices.Contains(allowed, raw) {
			return Fail[string]("Must be one of: %s", strings.Join(allowed, ", "))
		}
		return Ok(raw)
	})
}
