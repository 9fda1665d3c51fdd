package envguard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberValidator parses numeric values. Number yields float64 and Int
// yields int; both share the same constraints.
type NumberValidator[T int | float64] struct {
	Validator[T]
}

// Number returns a required validator for finite decimal numbers.
func Number() NumberValidator[float64] {
	return NumberValidator[float64]{New("number", func(raw string) Result[float64] {
		if r, missing := required[float64](raw); missing {
			return r
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Fail[float64]("Expected a number")
		}
		return Ok(f)
	})}
}

// Int returns a required validator for base-10 integers.
func Int() NumberValidator[int] {
	return NumberValidator[int]{New("integer", func(raw string) Result[int] {
		if r, missing := required[int](raw); missing {
			return r
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Fail[int]("Expected an integer")
		}
		return Ok(n)
	})}
}

// Min requires the value to be >= min.
func (n NumberValidator[T]) Min(min T) NumberValidator[T] {
	return NumberValidator[T]{n.refine(func(v T) string {
		if v < min {
			return fmt.Sprintf("Must be at least %v", min)
		}
		return ""
	})}
}

// Max requires the value to be <= max.
func (n NumberValidator[T]) Max(max T) NumberValidator[T] {
	return NumberValidator[T]{n.refine(func(v T) string {
		if v > max {
			return fmt.Sprintf("Must be at most %v", max)
		}
		return ""
	})}
}

// Positive requires the value to be > 0.
func (n NumberValidator[T]) Positive() NumberValidator[T] {
	return NumberValidator[T]{n.refine(func(v T) string {
		if v <= 0 {
			return "Must be a positive number"
		}
		return ""
	})}
}

// Integer rejects values with a fractional part.
func (n NumberValidator[T]) Integer() NumberValidator[T] {
	return NumberValidator[T]{n.refine(func(v T) string {
		f := float64(v)
		if f != math.Trunc(f) {
			return "Expected an integer"
		}
		return ""
	})}
}

// Port requires an integer TCP/UDP port in 1-65535.
func (n NumberValidator[T]) Port() NumberValidator[T] {
	return NumberValidator[T]{n.Integer().refine(func(v T) string {
		if f := float64(v); f < 1 || f > 65535 {
			return "Must be a valid port number (1-65535)"
		}
		return ""
	})}
}
