package envguard

import "fmt"

// ParseOption configures a single Parse, Validate or Bind call.
type ParseOption func(*parseConfig)

type parseConfig struct {
	env         Snapshot
	envSet      bool
	environment string
	envNameSet  bool
	stripTypes  bool
}

// WithEnv validates against s instead of the process environment.
func WithEnv(s Snapshot) ParseOption {
	return func(c *parseConfig) {
		c.env = s
		c.envSet = true
	}
}

// WithEnvironment sets the active environment name used to select
// overrides. Without it the snapshot's EnvironmentVar is used.
func WithEnvironment(name string) ParseOption {
	return func(c *parseConfig) {
		c.environment = name
		c.envNameSet = true
	}
}

// WithStripTypes reports successful fields as their raw string instead
// of the converted value. Defaults are rendered with fmt.
func WithStripTypes() ParseOption {
	return func(c *parseConfig) {
		c.stripTypes = true
	}
}

// newParseConfig applies opts and reads the process environment only
// when no snapshot was supplied.
func newParseConfig(opts []ParseOption) *parseConfig {
	c := &parseConfig{}
	for _, opt := range opts {
		opt(c)
	}
	if !c.envSet {
		c.env = FromProcess()
	}
	if c.env == nil {
		c.env = Snapshot{}
	}
	if !c.envNameSet {
		c.environment = c.env[EnvironmentVar]
	}
	return c
}

// evaluate runs v against the variable envKey. Exactly one of the
// value or the error is meaningful: a nil *EnvError means success, in
// which case a nil value means "not provided".
func evaluate(envKey string, v AnyValidator, c *parseConfig) (any, *EnvError) {
	raw, _ := c.env.Lookup(envKey)
	r := v.ParseAny(raw)
	if !r.OK {
		return nil, &EnvError{
			Key:      envKey,
			Kind:     Classify(r.Error, raw),
			Message:  r.Error,
			Received: raw,
			Expected: v.Kind(),
		}
	}
	if r.Empty {
		return nil, nil
	}
	if c.stripTypes {
		if raw != "" {
			return raw, nil
		}
		return FormatValue(r.Value), nil
	}
	return r.Value, nil
}

// resolveFlat evaluates every field of fields (after applying the
// overrides for the active environment) against prefix+key. Values are
// stored under the unprefixed key; errors carry the prefixed key.
func resolveFlat(fields FlatSchema, prefix string, overrides Overrides, c *parseConfig) (Values, []EnvError) {
	effective := fields
	if c.environment != "" {
		effective = fields.merge(overrides, c.environment)
	}
	values := make(Values, len(effective))
	var errs []EnvError
	for _, fd := range effective {
		v, fe := evaluate(prefix+fd.Key, fd.Validator, c)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		values[fd.Key] = v
	}
	return values, errs
}

// errorLedger keeps errors in processing order with O(1) replacement
// and removal by key.
type errorLedger struct {
	entries []EnvError
	live    []bool
	index   map[string]int
}

func newErrorLedger() *errorLedger {
	return &errorLedger{index: make(map[string]int)}
}

func (l *errorLedger) append(fe EnvError) {
	l.index[fe.Key] = len(l.entries)
	l.entries = append(l.entries, fe)
	l.live = append(l.live, true)
}

// put replaces the live error for fe.Key in place, or appends fe.
func (l *errorLedger) put(fe EnvError) {
	if i, ok := l.index[fe.Key]; ok {
		l.entries[i] = fe
		return
	}
	l.append(fe)
}

func (l *errorLedger) remove(key string) {
	if i, ok := l.index[key]; ok {
		l.live[i] = false
		delete(l.index, key)
	}
}

func (l *errorLedger) list() []EnvError {
	out := make([]EnvError, 0, len(l.index))
	for i, fe := range l.entries {
		if l.live[i] {
			out = append(out, fe)
		}
	}
	return out
}

// resolve is the single code path behind Parse, Validate and Bind.
// Phase one evaluates the schema; phase two re-evaluates the top-level
// overrides of the active environment, which replace the outcome of
// their keys entirely.
func (g *Guardian) resolve(c *parseConfig) (Values, []EnvError) {
	values := make(Values, len(g.schema))
	ledger := newErrorLedger()

	for _, e := range g.schema {
		switch e.Node.nodeKind() {
		case nodeGroup:
			grp := e.Node.(*GroupDef)
			groupValues, groupErrs := resolveFlat(grp.fields, grp.prefix, grp.overrides, c)
			values[e.Key] = groupValues
			for _, fe := range groupErrs {
				ledger.append(fe)
			}
		case nodeValidator:
			v, ok := e.Node.(AnyValidator)
			if !ok {
				panic(fmt.Sprintf("envguard: schema key %q is not a validator", e.Key))
			}
			val, fe := evaluate(e.Key, v, c)
			if fe != nil {
				ledger.append(*fe)
				continue
			}
			values[e.Key] = val
		default:
			panic(fmt.Sprintf("envguard: schema key %q has unknown node kind", e.Key))
		}
	}

	if c.environment == "" {
		return values, ledger.list()
	}
	patch, ok := g.overrides[c.environment]
	if !ok {
		return values, ledger.list()
	}
	g.logger.Debug("applying environment overrides",
		"environment", c.environment,
		"fields", len(patch))
	for _, fd := range patch {
		val, fe := evaluate(fd.Key, fd.Validator, c)
		if fe != nil {
			delete(values, fd.Key)
			ledger.put(*fe)
			continue
		}
		values[fd.Key] = val
		ledger.remove(fd.Key)
	}
	return values, ledger.list()
}
