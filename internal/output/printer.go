// Package output formats incidentctl's terminal output.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer writes messages to the terminal, coloured when enabled.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// ColorsEnabled honours NO_COLOR and dumb terminals.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func NewPrinter(out, errOut io.Writer, useColors, quiet bool) *Printer {
	return &Printer{
		out:       out,
		err:       errOut,
		useColors: useColors,
		quiet:     quiet,
	}
}

func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	p.printf(p.out, color.FgCyan, "", format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	p.printf(p.out, color.FgGreen, "[OK] ", format, args...)
}

// Warning goes to the error stream.
func (p *Printer) Warning(format string, args ...any) {
	if p.quiet {
		return
	}
	p.printf(p.err, color.FgYellow, "[WARN] ", format, args...)
}

// Error is printed even in quiet mode.
func (p *Printer) Error(format string, args ...any) {
	p.printf(p.err, color.FgRed, "[ERROR] ", format, args...)
}

func (p *Printer) Print(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	underline := strings.Repeat("-", len(title))
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		color.New(color.FgWhite).Fprintf(p.out, "%s\n", underline)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, underline)
}

// StatusBadge renders an incident status.
func (p *Printer) StatusBadge(status string) string {
	if !p.useColors {
		return status
	}
	switch status {
	case "reported":
		return color.YellowString(status)
	case "in_review":
		return color.CyanString(status)
	case "resolved":
		return color.GreenString(status)
	case "dismissed":
		return color.New(color.Faint).Sprint(status)
	default:
		return status
	}
}

func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

func (p *Printer) printf(w io.Writer, attr color.Attribute, plainPrefix, format string, args ...any) {
	if p.useColors {
		color.New(attr).Fprintf(w, format+"\n", args...)
		return
	}
	fmt.Fprintf(w, plainPrefix+format+"\n", args...)
}
