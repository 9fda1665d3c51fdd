package output

import (
	"strings"
	"text/tabwriter"

	"github.com/jenian/envguard"
)

// Inspect renders the schema's field descriptors as a table.
func (p *Printer) Inspect(in envguard.Introspection) error {
	if in.Fields == nil {
		in.Fields = []envguard.FieldDescriptor{}
	}
	if p.json {
		return p.encode(in)
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	tw.Write([]byte("KEY\tTYPE\tREQUIRED\tDEFAULT\tDESCRIPTION\n"))
	for _, f := range in.Fields {
		required := "no"
		if f.Required {
			required = "yes"
		}
		def := "-"
		if f.HasDefault {
			def = envguard.FormatValue(f.Default)
		}
		desc := f.Description
		if f.Group != "" {
			desc = strings.TrimSpace("[" + f.Group + "] " + desc)
		}
		tw.Write([]byte(strings.Join([]string{f.Key, f.Type, required, def, desc}, "\t") + "\n"))
	}
	return tw.Flush()
}
