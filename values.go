package envguard

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Values holds parsed results keyed by schema key. Group entries hold a
// nested Values keyed by unprefixed field name. Optional fields that
// were not provided are present with a nil value.
type Values map[string]any

// Lookup returns the value stored under key and whether it is non-nil.
func (v Values) Lookup(key string) (any, bool) {
	val, ok := v[key]
	return val, ok && val != nil
}

// Group returns the nested values of a group, or nil.
func (v Values) Group(key string) Values {
	g, _ := v[key].(Values)
	return g
}

// String returns the string stored under key.
func (v Values) String(key string) (string, error) {
	return valueAs[string](v, key)
}

// Int returns the int stored under key. float64 values without a
// fractional part, as produced by Number, are converted.
func (v Values) Int(key string) (int, error) {
	if f, ok := v[key].(float64); ok && f == float64(int(f)) {
		return int(f), nil
	}
	return valueAs[int](v, key)
}

// Float returns the float64 stored under key.
func (v Values) Float(key string) (float64, error) {
	if n, ok := v[key].(int); ok {
		return float64(n), nil
	}
	return valueAs[float64](v, key)
}

// Bool returns the bool stored under key.
func (v Values) Bool(key string) (bool, error) {
	return valueAs[bool](v, key)
}

// Duration returns the time.Duration stored under key.
func (v Values) Duration(key string) (time.Duration, error) {
	return valueAs[time.Duration](v, key)
}

func valueAs[T any](v Values, key string) (T, error) {
	var zero T
	raw, ok := v.Lookup(key)
	if !ok {
		return zero, fmt.Errorf("no value for %q", key)
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("value for %q is %T, not %T", key, raw, zero)
	}
	return typed, nil
}

// Decode copies v into dst, a pointer to a struct or map. Struct fields
// are matched by their `env` tag, falling back to a case-insensitive
// field name match; groups decode into nested structs.
func (v Values) Decode(dst any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "env",
		WeaklyTypedInput: true,
		Result:           dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v.plain()); err != nil {
		return fmt.Errorf("failed to decode values: %w", err)
	}
	return nil
}

// plain converts nested Values to map[string]any for decoding.
func (v Values) plain() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		if g, ok := val.(Values); ok {
			out[k] = g.plain()
			continue
		}
		out[k] = val
	}
	return out
}
