package envguard

import "time"

// Custom returns a required validator of the given kind that converts
// the raw value with fn. The error text of fn becomes the failure
// reason; phrase it so it classifies as intended (see Classify).
func Custom[T any](kind string, fn func(raw string) (T, error)) Validator[T] {
	return New(kind, func(raw string) Result[T] {
		if r, missing := required[T](raw); missing {
			return r
		}
		v, err := fn(raw)
		if err != nil {
			return Result[T]{Error: err.Error()}
		}
		return Ok(v)
	})
}

// Duration returns a required validator for Go duration strings such as
// "30s" or "1h30m".
func Duration() Validator[time.Duration] {
	return New("duration", func(raw string) Result[time.Duration] {
		if r, missing := required[time.Duration](raw); missing {
			return r
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Fail[time.Duration]("Expected a duration such as 30s or 1h30m")
		}
		return Ok(d)
	})
}
