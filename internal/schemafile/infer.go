package schemafile

import (
	"slices"
	"strings"
)

// Infer builds a starter schema for keys, guessing a type from each
// name. Keys are sorted; every variable is required.
func Infer(keys []string) *File {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	f := &File{}
	for _, key := range sorted {
		f.Variables = append(f.Variables, inferVariable(key))
	}
	return f
}

func inferVariable(key string) Variable {
	v := Variable{Name: key}
	upper := strings.ToUpper(key)
	switch {
	case upper == "PORT" || strings.HasSuffix(upper, "_PORT"):
		v.Type = "int"
		v.Port = true
	case strings.HasSuffix(upper, "_URL") || strings.HasSuffix(upper, "_URI") || upper == "URL":
		v.Type = "url"
	case strings.HasSuffix(upper, "EMAIL"):
		v.Type = "email"
	case strings.HasSuffix(upper, "_TIMEOUT") || strings.HasSuffix(upper, "_INTERVAL") || strings.HasSuffix(upper, "_TTL"):
		v.Type = "duration"
	case upper == "DEBUG" || strings.HasPrefix(upper, "ENABLE_") || strings.HasPrefix(upper, "DISABLE_") ||
		strings.HasSuffix(upper, "_ENABLED") || strings.HasSuffix(upper, "_DISABLED"):
		v.Type = "boolean"
	case strings.HasSuffix(upper, "_COUNT") || strings.HasSuffix(upper, "_SIZE") || strings.HasSuffix(upper, "_LIMIT") ||
		strings.HasPrefix(upper, "MAX_") || strings.HasPrefix(upper, "MIN_"):
		v.Type = "int"
	default:
		v.Type = "string"
	}
	return v
}
