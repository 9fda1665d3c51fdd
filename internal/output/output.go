// Package output renders envguard reports for terminals and as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes reports to w.
type Printer struct {
	w       io.Writer
	json    bool
	color   bool
	profile termenv.Profile
	restore func() error // resets the console mode changed by New
}

// New returns a printer for w. Colors are enabled when w is a terminal
// that accepts ANSI sequences. Callers must Close the printer.
func New(w io.Writer) *Printer {
	p := &Printer{w: w, profile: termenv.Ascii}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		out := termenv.NewOutput(f)
		if restore, err := termenv.EnableVirtualTerminalProcessing(out); err == nil {
			p.restore = restore
			p.profile = out.EnvColorProfile()
			p.color = p.profile != termenv.Ascii
		}
	}
	return p
}

// Close restores the console mode New enabled on Windows terminals.
// It is safe to call more than once.
func (p *Printer) Close() error {
	if p.restore == nil {
		return nil
	}
	restore := p.restore
	p.restore = nil
	return restore()
}

// SetJSON switches the printer to JSON output.
func (p *Printer) SetJSON(enabled bool) { p.json = enabled }

// SetColor forces colors on or off.
func (p *Printer) SetColor(enabled bool) {
	p.color = enabled
	if enabled && p.profile == termenv.Ascii {
		p.profile = termenv.ANSI
	}
}

// JSON reports whether the printer emits JSON.
func (p *Printer) JSON() bool { return p.json }

const (
	red    = "1"
	green  = "2"
	yellow = "3"
	cyan   = "6"
	gray   = "8"
)

func (p *Printer) paint(s, color string) string {
	if !p.color {
		return s
	}
	return termenv.String(s).Foreground(p.profile.Color(color)).String()
}

func (p *Printer) heading(s, color string) string {
	if !p.color {
		return s
	}
	return termenv.String(s).Foreground(p.profile.Color(color)).Bold().String()
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Banner prints the tool header.
func (p *Printer) Banner(version string) {
	p.printf("%s %s\n\n", p.heading("envguard", cyan), p.paint(version, gray))
}

// Error prints an error line.
func (p *Printer) Error(err error) {
	p.printf("%s %v\n", p.heading("Error:", red), err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
