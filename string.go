package envguard

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// StringValidator accepts any non-empty value. Constraints chain and
// must be applied before Optional, Default or Describe.
type StringValidator struct {
	Validator[string]
}

// String returns a required string validator.
func String() StringValidator {
	return StringValidator{New("string", func(raw string) Result[string] {
		if r, missing := required[string](raw); missing {
			return r
		}
		return Ok(raw)
	})}
}

// Min requires at least n characters.
func (s StringValidator) Min(n int) StringValidator {
	return StringValidator{s.refine(func(v string) string {
		if utf8.RuneCountInString(v) < n {
			return fmt.Sprintf("Must be at least %d characters", n)
		}
		return ""
	})}
}

// Max allows at most n characters.
func (s StringValidator) Max(n int) StringValidator {
	return StringValidator{s.refine(func(v string) string {
		if utf8.RuneCountInString(v) > n {
			return fmt.Sprintf("Must be at most %d characters", n)
		}
		return ""
	})}
}

// Length requires exactly n characters.
func (s StringValidator) Length(n int) StringValidator {
	return StringValidator{s.refine(func(v string) string {
		if utf8.RuneCountInString(v) != n {
			return fmt.Sprintf("Must be exactly %d characters", n)
		}
		return ""
	})}
}

// Pattern requires the value to match re.
func (s StringValidator) Pattern(re *regexp.Regexp) StringValidator {
	return StringValidator{s.refine(func(v string) string {
		if !re.MatchString(v) {
			return fmt.Sprintf("Must match pattern %s", re.String())
		}
		return ""
	})}
}
