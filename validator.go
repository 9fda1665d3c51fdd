package envguard

import "fmt"

// Result is the outcome of parsing one raw environment value.
// A successful parse that produced no value (an optional variable that
// was not provided) has both OK and Empty set.
type Result[T any] struct {
	OK    bool
	Value T
	Empty bool
	Error string
}

// Ok returns a successful result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{OK: true, Value: v}
}

// Fail returns a failed result with a formatted reason.
func Fail[T any](format string, args ...any) Result[T] {
	return Result[T]{Error: fmt.Sprintf(format, args...)}
}

func none[T any]() Result[T] {
	return Result[T]{OK: true, Empty: true}
}

// Validator converts a raw environment value into a T.
//
// An empty raw string means the variable was not provided; absent and
// empty variables are never distinguished. Validators are immutable
// values: Optional, Default, Describe and Refine return new validators
// and leave the receiver untouched, so a base validator can be shared
// between fields.
type Validator[T any] struct {
	kind        string
	required    bool
	hasDefault  bool
	def         T
	description string
	parse       func(raw string) Result[T]
}

// New returns a required validator of the given kind backed by parse.
// parse receives "" when the variable is absent or empty.
func New[T any](kind string, parse func(raw string) Result[T]) Validator[T] {
	return Validator[T]{kind: kind, required: true, parse: parse}
}

// Kind returns the human-readable type tag, e.g. "number" or "enum(a | b)".
func (v Validator[T]) Kind() string { return v.kind }

// Required reports whether the validator has neither a default nor was
// made optional. It is documentation only; Parse decides requiredness.
func (v Validator[T]) Required() bool { return v.required }

// DefaultValue returns the default applied when the variable is not provided.
func (v Validator[T]) DefaultValue() (any, bool) {
	if !v.hasDefault {
		return nil, false
	}
	return v.def, true
}

// Description returns the text attached with Describe.
func (v Validator[T]) Description() string { return v.description }

// Parse runs the validator against raw.
func (v Validator[T]) Parse(raw string) Result[T] {
	if v.parse == nil {
		panic("envguard: Parse called on zero Validator")
	}
	return v.parse(raw)
}

// ParseAny is Parse with the value boxed, for use through AnyValidator.
func (v Validator[T]) ParseAny(raw string) Result[any] {
	r := v.Parse(raw)
	switch {
	case !r.OK:
		return Result[any]{Error: r.Error}
	case r.Empty:
		return Result[any]{OK: true, Empty: true}
	}
	return Result[any]{OK: true, Value: r.Value}
}

// Optional returns a validator that succeeds without a value when the
// variable is absent or empty, and otherwise defers to v.
//
// The outermost wrapper decides what happens to absent input, so
// v.Default(x).Optional() yields no value while v.Optional().Default(x)
// yields x.
func (v Validator[T]) Optional() Validator[T] {
	inner := v.parse
	out := v
	out.required = false
	out.hasDefault = false
	var zero T
	out.def = zero
	out.parse = func(raw string) Result[T] {
		if raw == "" {
			return none[T]()
		}
		return inner(raw)
	}
	return out
}

// Default returns a validator that yields d when the variable is absent
// or empty, and otherwise defers to v.
func (v Validator[T]) Default(d T) Validator[T] {
	inner := v.parse
	out := v
	out.required = false
	out.hasDefault = true
	out.def = d
	out.parse = func(raw string) Result[T] {
		if raw == "" {
			return Ok(d)
		}
		return inner(raw)
	}
	return out
}

// Describe returns a copy of v carrying a human-readable description.
func (v Validator[T]) Describe(text string) Validator[T] {
	out := v
	out.description = text
	return out
}

// Refine returns a validator that additionally runs check on every
// successfully parsed value. A non-nil error fails the parse with the
// error text as the reason.
func (v Validator[T]) Refine(check func(T) error) Validator[T] {
	return v.refine(func(val T) string {
		if err := check(val); err != nil {
			return err.Error()
		}
		return ""
	})
}

// refine chains a constraint that returns a failure reason, or "" to pass.
func (v Validator[T]) refine(check func(T) string) Validator[T] {
	inner := v.parse
	out := v
	out.parse = func(raw string) Result[T] {
		r := inner(raw)
		if !r.OK || r.Empty {
			return r
		}
		if reason := check(r.Value); reason != "" {
			return Result[T]{Error: reason}
		}
		return r
	}
	return out
}

func (v Validator[T]) nodeKind() nodeKind { return nodeValidator }

// AnyValidator is the type-erased view of a Validator used inside
// schemas. It is implemented by every Validator[T] and cannot be
// implemented outside this package; use New, Custom or Refine for
// bespoke rules.
type AnyValidator interface {
	Node
	Kind() string
	Required() bool
	DefaultValue() (any, bool)
	Description() string
	ParseAny(raw string) Result[any]
}

// required is the failure every built-in validator reports for absent input.
func required[T any](raw string) (Result[T], bool) {
	if raw == "" {
		return Fail[T]("Required"), true
	}
	return Result[T]{}, false
}
