package envguard

import "strings"

// Classify maps a validator failure reason to an ErrorKind. raw is the
// value the validator saw; absent or empty input is always KindMissing.
//
// Otherwise the lower-cased reason is matched in order: "required" is
// missing; "type" or "expected a" is a type error; "url", "email" or
// "pattern" is a format error; anything else is a value error.
func Classify(reason, raw string) ErrorKind {
	if raw == "" {
		return KindMissing
	}
	msg := strings.ToLower(reason)
	switch {
	case strings.Contains(msg, "required"):
		return KindMissing
	case strings.Contains(msg, "type"), strings.Contains(msg, "expected a"):
		return KindInvalidType
	case strings.Contains(msg, "url"), strings.Contains(msg, "email"), strings.Contains(msg, "pattern"):
		return KindInvalidFormat
	default:
		return KindInvalidValue
	}
}
