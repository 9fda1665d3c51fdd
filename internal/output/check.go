package output

import (
	"fmt"
	"strings"

	"github.com/jenian/envguard"
)

// CheckReport is the outcome of validating an environment.
type CheckReport struct {
	Environment string              `json:"environment,omitempty"`
	Sources     []string            `json:"sources"`
	Fields      int                 `json:"fields"`
	Errors      []envguard.EnvError `json:"errors"`
	Ignored     []string            `json:"ignored,omitempty"` // missing keys skipped via config
}

// Valid reports whether no errors remain.
func (r CheckReport) Valid() bool { return len(r.Errors) == 0 }

// Check renders a validation report.
func (p *Printer) Check(r CheckReport) error {
	if r.Errors == nil {
		r.Errors = []envguard.EnvError{}
	}
	if r.Sources == nil {
		r.Sources = []string{}
	}
	if p.json {
		return p.encode(struct {
			Valid bool `json:"valid"`
			CheckReport
		}{r.Valid(), r})
	}

	env := r.Environment
	if env == "" {
		env = "default"
	}
	sources := "exported environment only"
	if len(r.Sources) > 0 {
		sources = strings.Join(r.Sources, ", ")
	}
	p.printf("Checked %d variables for %s (%s)\n\n",
		r.Fields, p.paint(env, cyan), p.paint(sources, gray))

	verr := &envguard.ValidationError{Errors: r.Errors}
	if missing := verr.Missing(); len(missing) > 0 {
		p.printf("%s\n", p.heading("Missing variables:", red))
		for _, fe := range missing {
			p.printf("  %s %s %s\n", p.paint("✗", red), fe.Key, p.paint("("+fe.Expected+")", gray))
		}
		p.printf("\n")
	}
	if invalid := verr.Invalid(); len(invalid) > 0 {
		p.printf("%s\n", p.heading("Invalid variables:", yellow))
		for _, fe := range invalid {
			p.printf("  %s %s %s %s\n", p.paint("✗", yellow), fe.Key, p.paint("["+string(fe.Kind)+"]", gray), fe.Message)
			p.printf("      %s %s\n", p.paint("received:", gray), truncate(fmt.Sprintf("%q", fe.Received), 80))
			p.printf("      %s %s\n", p.paint("expected:", gray), fe.Expected)
		}
		p.printf("\n")
	}

	if len(r.Ignored) > 0 {
		p.printf("%s %d missing variable(s) were ignored (configured in .envguard.config)\n\n",
			p.heading("Note:", gray), len(r.Ignored))
	}

	if r.Valid() {
		p.printf("%s\n", p.heading("✓ Environment is valid.", green))
		return nil
	}
	p.printf("%s\n", p.heading(fmt.Sprintf("✗ %d problem(s) found.", len(r.Errors)), red))
	return nil
}
