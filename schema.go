package envguard

import (
	"fmt"
	"maps"
	"slices"
)

type nodeKind int

const (
	nodeValidator nodeKind = iota + 1
	nodeGroup
)

// Node is a top-level schema value: either a validator or a group.
type Node interface {
	nodeKind() nodeKind
}

// FieldDef binds a field key to its validator.
type FieldDef struct {
	Key       string
	Validator AnyValidator
}

// Field returns a FieldDef for use in a FlatSchema.
func Field(key string, v AnyValidator) FieldDef {
	return FieldDef{Key: key, Validator: v}
}

// FlatSchema is an ordered list of fields. Declaration order drives
// introspection and example output.
type FlatSchema []FieldDef

// Overrides maps an environment name (e.g. "production") to the fields
// that replace their base definitions while that environment is active.
type Overrides map[string]FlatSchema

// Entry is one top-level schema entry.
type Entry struct {
	Key  string
	Node Node
}

// Key returns an Entry binding key to a validator or a group.
func Key(key string, n Node) Entry {
	return Entry{Key: key, Node: n}
}

// Schema is the ordered top-level shape handed to Define.
type Schema []Entry

// GroupDef namespaces related fields under one output key. Groups do
// not nest.
type GroupDef struct {
	prefix    string
	overrides Overrides
	fields    FlatSchema
}

// GroupOption configures a group.
type GroupOption func(*GroupDef)

// WithPrefix sets the prefix prepended to every field key when reading
// the environment and reporting errors. Output keys stay unprefixed.
func WithPrefix(prefix string) GroupOption {
	return func(g *GroupDef) {
		g.prefix = prefix
	}
}

// WithEnvSpecific sets per-environment field overrides for the group.
func WithEnvSpecific(overrides Overrides) GroupOption {
	return func(g *GroupDef) {
		g.overrides = overrides
	}
}

// Group returns a group over fields.
func Group(fields FlatSchema, opts ...GroupOption) *GroupDef {
	g := &GroupDef{fields: fields}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Prefix returns the group's environment key prefix.
func (g *GroupDef) Prefix() string { return g.prefix }

// Fields returns the group's base fields.
func (g *GroupDef) Fields() FlatSchema { return g.fields }

func (g *GroupDef) nodeKind() nodeKind { return nodeGroup }

// check panics on schemas that cannot be resolved: nil nodes or
// validators, duplicate keys, unknown node kinds, or two entries reading
// the same environment variable.
func (s Schema) check() {
	seen := make(map[string]bool, len(s))
	for _, e := range s {
		if seen[e.Key] {
			panic(fmt.Sprintf("envguard: duplicate schema key %q", e.Key))
		}
		seen[e.Key] = true
		if e.Node == nil {
			panic(fmt.Sprintf("envguard: schema key %q has no validator or group", e.Key))
		}
		switch e.Node.nodeKind() {
		case nodeValidator:
		case nodeGroup:
			g := e.Node.(*GroupDef)
			if g == nil {
				panic(fmt.Sprintf("envguard: schema key %q has a nil group", e.Key))
			}
			g.fields.check(e.Key)
			for env, fields := range g.overrides {
				fields.check(e.Key + "[" + env + "]")
			}
		default:
			panic(fmt.Sprintf("envguard: schema key %q has unknown node kind", e.Key))
		}
	}

	owners := make(map[string]string)
	for _, e := range s {
		for _, key := range e.envKeys() {
			if owner, ok := owners[key]; ok {
				panic(fmt.Sprintf("envguard: environment variable %q is read by both %q and %q", key, owner, e.Key))
			}
			owners[key] = e.Key
		}
	}
}

// envKeys lists the environment variables e reads, including fields
// that only exist in group overrides.
func (e Entry) envKeys() []string {
	grp, ok := e.Node.(*GroupDef)
	if !ok {
		return []string{e.Key}
	}
	seen := make(map[string]bool)
	var keys []string
	add := func(fields FlatSchema) {
		for _, fd := range fields {
			if key := grp.prefix + fd.Key; !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	add(grp.fields)
	for _, env := range slices.Sorted(maps.Keys(grp.overrides)) {
		add(grp.overrides[env])
	}
	return keys
}

// groupOwner returns the group key that reads the environment variable
// key, if any.
func (s Schema) groupOwner(key string) (string, bool) {
	for _, e := range s {
		if e.Node.nodeKind() != nodeGroup {
			continue
		}
		if slices.Contains(e.envKeys(), key) {
			return e.Key, true
		}
	}
	return "", false
}

func (f FlatSchema) check(scope string) {
	seen := make(map[string]bool, len(f))
	for _, fd := range f {
		if seen[fd.Key] {
			panic(fmt.Sprintf("envguard: duplicate field %q in %s", fd.Key, scope))
		}
		seen[fd.Key] = true
		if fd.Validator == nil {
			panic(fmt.Sprintf("envguard: field %q in %s has no validator", fd.Key, scope))
		}
	}
}

// merge returns base with the fields of overrides[environment] applied:
// overridden keys keep their position, new keys are appended in
// override order. base is not modified.
func (f FlatSchema) merge(overrides Overrides, environment string) FlatSchema {
	patch, ok := overrides[environment]
	if !ok || len(patch) == 0 {
		return f
	}
	merged := make(FlatSchema, len(f), len(f)+len(patch))
	copy(merged, f)
	index := make(map[string]int, len(merged))
	for i, fd := range merged {
		index[fd.Key] = i
	}
	for _, fd := range patch {
		if i, exists := index[fd.Key]; exists {
			merged[i] = fd
			continue
		}
		index[fd.Key] = len(merged)
		merged = append(merged, fd)
	}
	return merged
}
