package envguard

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a field failure.
type ErrorKind string

const (
	// KindMissing: the variable is absent or empty and has no default.
	KindMissing ErrorKind = "missing"
	// KindInvalidType: the value has the wrong primitive shape.
	KindInvalidType ErrorKind = "invalid_type"
	// KindInvalidFormat: the value fails a structural check (URL, email, pattern).
	KindInvalidFormat ErrorKind = "invalid_format"
	// KindInvalidValue: the value fails a value constraint (bounds, enum membership).
	KindInvalidValue ErrorKind = "invalid_value"
)

// EnvError describes one field that failed validation.
type EnvError struct {
	Key      string    `json:"key"` // fully qualified, including any group prefix
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
	Received string    `json:"received,omitempty"`
	Expected string    `json:"expected,omitempty"`
}

func (e EnvError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// ValidationError carries every field failure of one parse, in
// processing order. Its Error text is a multi-line report.
type ValidationError struct {
	Errors []EnvError
}

// Missing returns the failures of kind KindMissing.
func (e *ValidationError) Missing() []EnvError {
	var out []EnvError
	for _, fe := range e.Errors {
		if fe.Kind == KindMissing {
			out = append(out, fe)
		}
	}
	return out
}

// Invalid returns every failure that is not KindMissing.
func (e *ValidationError) Invalid() []EnvError {
	var out []EnvError
	for _, fe := range e.Errors {
		if fe.Kind != KindMissing {
			out = append(out, fe)
		}
	}
	return out
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if len(e.Errors) == 1 {
		b.WriteString("environment validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "environment validation failed: %d errors\n", len(e.Errors))
	}

	if missing := e.Missing(); len(missing) > 0 {
		b.WriteString("\nMissing variables:\n")
		for _, fe := range missing {
			fmt.Fprintf(&b, "  ✗ %s", fe.Key)
			if fe.Expected != "" {
				fmt.Fprintf(&b, " (%s)", fe.Expected)
			}
			b.WriteString("\n")
		}
	}

	if invalid := e.Invalid(); len(invalid) > 0 {
		b.WriteString("\nInvalid variables:\n")
		for _, fe := range invalid {
			fmt.Fprintf(&b, "  ✗ %s [%s]: %s\n", fe.Key, fe.Kind, fe.Message)
			if fe.Received != "" {
				fmt.Fprintf(&b, "      received: %q\n", fe.Received)
			}
			if fe.Expected != "" {
				fmt.Fprintf(&b, "      expected: %s\n", fe.Expected)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
