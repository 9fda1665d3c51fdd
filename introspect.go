package envguard

import (
	"fmt"
	"strconv"
	"time"
)

// FieldDescriptor is the static metadata of one resolved field.
type FieldDescriptor struct {
	Key         string `json:"key"`
	Group       string `json:"group,omitempty"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default"`
	HasDefault  bool   `json:"has_default"`
	Description string `json:"description,omitempty"`
}

// Introspection lists the fields of a schema in declaration order.
type Introspection struct {
	Fields []FieldDescriptor `json:"fields"`
}

// Introspect describes the base schema without reading the environment.
// Group fields are reported with their prefixed key; environment
// overrides are not included.
func (g *Guardian) Introspect() Introspection {
	var fields []FieldDescriptor
	g.walk(func(key, group string, v AnyValidator) {
		def, hasDefault := v.DefaultValue()
		fields = append(fields, FieldDescriptor{
			Key:         key,
			Group:       group,
			Type:        v.Kind(),
			Required:    v.Required(),
			Default:     def,
			HasDefault:  hasDefault,
			Description: v.Description(),
		})
	})
	return Introspection{Fields: fields}
}

// Keys returns the fully qualified environment keys of the schema.
func (g *Guardian) Keys() []string {
	var keys []string
	g.walk(func(key, _ string, _ AnyValidator) {
		keys = append(keys, key)
	})
	return keys
}

// walk visits every base field in declaration order with its fully
// qualified key and owning group key.
func (g *Guardian) walk(visit func(key, group string, v AnyValidator)) {
	for _, e := range g.schema {
		switch e.Node.nodeKind() {
		case nodeGroup:
			grp := e.Node.(*GroupDef)
			for _, fd := range grp.fields {
				visit(grp.prefix+fd.Key, e.Key, fd.Validator)
			}
		case nodeValidator:
			visit(e.Key, "", e.Node.(AnyValidator))
		}
	}
}

// FormatValue renders a parsed value the way it would be written in an
// environment file.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
