package envguard

import "strings"

// ExampleOption configures GenerateExample.
type ExampleOption func(*exampleConfig)

type exampleConfig struct {
	comments        bool
	includeDefaults bool
}

// WithoutComments omits the metadata comment lines.
func WithoutComments() ExampleOption {
	return func(c *exampleConfig) {
		c.comments = false
	}
}

// WithoutDefaults leaves every value empty, even when a default exists.
func WithoutDefaults() ExampleOption {
	return func(c *exampleConfig) {
		c.includeDefaults = false
	}
}

// GenerateExample renders a .env template with one KEY= line per field
// in declaration order, group fields carrying their prefix.
func (g *Guardian) GenerateExample(opts ...ExampleOption) string {
	cfg := exampleConfig{comments: true, includeDefaults: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var b strings.Builder
	lastGroup := ""
	for _, f := range g.Introspect().Fields {
		if cfg.comments {
			if f.Group != "" && f.Group != lastGroup {
				b.WriteString("# [" + f.Group + "]\n")
			}
			if f.Description != "" {
				b.WriteString("# " + f.Description + "\n")
			}
			b.WriteString("# type: " + f.Type)
			if f.Required {
				b.WriteString(", required")
			} else {
				b.WriteString(", optional")
			}
			if f.HasDefault {
				b.WriteString(", default: " + FormatValue(f.Default))
			}
			b.WriteString("\n")
		}
		lastGroup = f.Group

		b.WriteString(f.Key + "=")
		if cfg.includeDefaults && f.HasDefault {
			b.WriteString(FormatValue(f.Default))
		}
		b.WriteString("\n")
		if cfg.comments {
			b.WriteString("\n")
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
