package schemafile

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/jenian/envguard"
)

// Build converts f into a Guardian. Top-level environments become
// ForEnv overrides; group environments become group overrides.
func (f *File) Build() (*envguard.Guardian, error) {
	var schema envguard.Schema
	seen := make(map[string]bool)
	claim := func(key string) error {
		if key == "" {
			return fmt.Errorf("schema entry without a name")
		}
		if seen[key] {
			return fmt.Errorf("duplicate schema key %q", key)
		}
		seen[key] = true
		return nil
	}

	for _, v := range f.Variables {
		if err := claim(v.Name); err != nil {
			return nil, err
		}
		av, err := v.Validator()
		if err != nil {
			return nil, err
		}
		schema = append(schema, envguard.Key(v.Name, av))
	}

	for _, g := range f.Groups {
		if err := claim(g.Name); err != nil {
			return nil, err
		}
		fields, err := flatSchema(g.Variables, "group "+g.Name)
		if err != nil {
			return nil, err
		}
		opts := []envguard.GroupOption{envguard.WithPrefix(g.Prefix)}
		if len(g.Environments) > 0 {
			overrides, err := overridesOf(g.Environments, "group "+g.Name)
			if err != nil {
				return nil, err
			}
			opts = append(opts, envguard.WithEnvSpecific(overrides))
		}
		schema = append(schema, envguard.Key(g.Name, envguard.Group(fields, opts...)))
	}

	if err := f.checkEnvKeys(); err != nil {
		return nil, err
	}

	overrides, err := overridesOf(f.Environments, "environments")
	if err != nil {
		return nil, err
	}
	return envguard.Define(schema).ForEnv(overrides), nil
}

// checkEnvKeys rejects files where a top-level variable or override
// names an environment variable that a group also reads.
func (f *File) checkEnvKeys() error {
	type owner struct {
		name  string
		group bool
	}
	owners := make(map[string]owner)
	claim := func(key string, o owner) error {
		if prev, ok := owners[key]; ok && prev != o {
			return fmt.Errorf("environment variable %q is read by both %q and %q", key, prev.name, o.name)
		}
		owners[key] = o
		return nil
	}

	for _, v := range f.Variables {
		if err := claim(v.Name, owner{name: v.Name}); err != nil {
			return err
		}
	}
	for _, g := range f.Groups {
		vars := slices.Clone(g.Variables)
		for _, env := range slices.Sorted(maps.Keys(g.Environments)) {
			vars = append(vars, g.Environments[env]...)
		}
		for _, v := range vars {
			if err := claim(g.Prefix+v.Name, owner{name: g.Name, group: true}); err != nil {
				return err
			}
		}
	}
	for _, env := range slices.Sorted(maps.Keys(f.Environments)) {
		for _, v := range f.Environments[env] {
			if o, ok := owners[v.Name]; ok && o.group {
				return fmt.Errorf("environment %s overrides %q, which is read by group %q", env, v.Name, o.name)
			}
		}
	}
	return nil
}

func overridesOf(envs map[string][]Variable, scope string) (envguard.Overrides, error) {
	out := make(envguard.Overrides, len(envs))
	for env, vars := range envs {
		fields, err := flatSchema(vars, scope+"."+env)
		if err != nil {
			return nil, err
		}
		out[env] = fields
	}
	return out, nil
}

func flatSchema(vars []Variable, scope string) (envguard.FlatSchema, error) {
	fields := make(envguard.FlatSchema, 0, len(vars))
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if v.Name == "" {
			return nil, fmt.Errorf("%s: variable without a name", scope)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("%s: duplicate variable %q", scope, v.Name)
		}
		seen[v.Name] = true
		av, err := v.Validator()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", scope, err)
		}
		fields = append(fields, envguard.Field(v.Name, av))
	}
	return fields, nil
}

// Validator builds the validator v describes. An empty type means string.
func (v Variable) Validator() (envguard.AnyValidator, error) {
	var (
		av  envguard.AnyValidator
		err error
	)
	switch v.Type {
	case "", "string":
		av, err = v.stringValidator()
	case "number", "float":
		av, err = finish(v, applyNumber(v, envguard.Number()).Validator)
	case "int", "integer":
		av, err = finish(v, applyNumber(v, envguard.Int()).Validator)
	case "bool", "boolean":
		av, err = finish(v, envguard.Boolean())
	case "url":
		u := envguard.URL()
		if len(v.Protocols) > 0 {
			u = u.Protocols(v.Protocols...)
		}
		av, err = finish(v, u.Validator)
	case "email":
		av, err = finish(v, envguard.Email())
	case "enum":
		if len(v.Values) == 0 {
			return nil, fmt.Errorf("variable %s: enum needs values", v.Name)
		}
		av, err = finish(v, envguard.Enum(v.Values...))
	case "duration":
		av, err = finish(v, envguard.Duration())
	default:
		return nil, fmt.Errorf("variable %s: unknown type %q", v.Name, v.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", v.Name, err)
	}
	return av, nil
}

func (v Variable) stringValidator() (envguard.AnyValidator, error) {
	s := envguard.String()
	if v.Min != nil {
		s = s.Min(int(*v.Min))
	}
	if v.Max != nil {
		s = s.Max(int(*v.Max))
	}
	if v.Length != nil {
		s = s.Length(*v.Length)
	}
	if v.Pattern != "" {
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		s = s.Pattern(re)
	}
	return finish(v, s.Validator)
}

func applyNumber[T int | float64](v Variable, n envguard.NumberValidator[T]) envguard.NumberValidator[T] {
	if v.Min != nil {
		n = n.Min(T(*v.Min))
	}
	if v.Max != nil {
		n = n.Max(T(*v.Max))
	}
	if v.Positive {
		n = n.Positive()
	}
	if v.Integer {
		n = n.Integer()
	}
	if v.Port {
		n = n.Port()
	}
	return n
}

// finish applies the default, optional and description settings. The
// default is written the way it would appear in the environment and is
// parsed by the validator itself.
func finish[T any](v Variable, base envguard.Validator[T]) (envguard.AnyValidator, error) {
	out := base
	switch {
	case v.Default != nil:
		raw := envguard.FormatValue(v.Default)
		r := base.Parse(raw)
		if !r.OK {
			return nil, fmt.Errorf("invalid default %q: %s", raw, r.Error)
		}
		out = out.Default(r.Value)
	case v.Optional:
		out = out.Optional()
	}
	if v.Description != "" {
		out = out.Describe(v.Description)
	}
	return out, nil
}
