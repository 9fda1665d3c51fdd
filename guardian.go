package envguard

import (
	"fmt"
	"log/slog"
)

// Guardian validates environments against a schema.
//
// A Guardian is built once, typically at program start, and may then
// be used from any number of goroutines. ForEnv and SetLogger mutate
// the Guardian and must complete before the first Parse; they are not
// synchronized.
type Guardian struct {
	schema    Schema
	overrides Overrides
	logger    *slog.Logger
}

// Define returns a Guardian for schema. It panics if schema contains
// duplicate keys or nil entries.
func Define(schema Schema) *Guardian {
	schema.check()
	return &Guardian{
		schema:    schema,
		overrides: make(Overrides),
		logger:    slog.New(slog.DiscardHandler),
	}
}

// ParseEnv is shorthand for Define(schema).Parse(opts...).
func ParseEnv(schema Schema, opts ...ParseOption) (Values, error) {
	return Define(schema).Parse(opts...)
}

// ForEnv registers top-level overrides per environment name and returns
// g. Overrides apply to ungrouped keys only and take precedence over
// the base schema. Repeated calls merge field by field. It panics if an
// override key is an environment variable read by a group.
func (g *Guardian) ForEnv(overrides Overrides) *Guardian {
	for env, fields := range overrides {
		fields.check("environment " + env)
		for _, fd := range fields {
			if owner, ok := g.schema.groupOwner(fd.Key); ok {
				panic(fmt.Sprintf("envguard: environment %s overrides %q, which is read by group %q", env, fd.Key, owner))
			}
		}
	}
	for env, fields := range overrides {
		g.overrides[env] = g.overrides[env].merge(Overrides{env: fields}, env)
	}
	return g
}

// SetLogger sets the logger used for debug output during resolution.
func (g *Guardian) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g.logger = logger
}

// Schema returns the schema g was defined with.
func (g *Guardian) Schema() Schema { return g.schema }

// Overrides returns the top-level overrides registered with ForEnv.
func (g *Guardian) Overrides() Overrides { return g.overrides }

// Parse validates the environment and returns the typed values. If any
// field fails it returns a *ValidationError listing every failure.
func (g *Guardian) Parse(opts ...ParseOption) (Values, error) {
	values, errs := g.resolve(newParseConfig(opts))
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return values, nil
}

// MustParse is like Parse but panics on failure.
func (g *Guardian) MustParse(opts ...ParseOption) Values {
	values, err := g.Parse(opts...)
	if err != nil {
		panic(err)
	}
	return values
}

// Validate returns every field failure; the result is empty when the
// environment is valid.
func (g *Guardian) Validate(opts ...ParseOption) []EnvError {
	_, errs := g.resolve(newParseConfig(opts))
	return errs
}

// Bind parses the environment and decodes the values into dst, which
// must be a pointer to a struct or map. See Values.Decode.
func (g *Guardian) Bind(dst any, opts ...ParseOption) error {
	values, err := g.Parse(opts...)
	if err != nil {
		return err
	}
	return values.Decode(dst)
}
