// Package render prints the log event stream with severity-stable styling.
// It is a thin presentation layer over the core's output contract; it also
// owns the watch for the manual-reset hint phrase.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"netmend/internal/domain"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Italic(true)
)

// severityPrefix keeps output greppable when color is off.
var severityPrefix = map[domain.Severity]string{
	domain.SeverityInfo:    "  ",
	domain.SeverityWarning: "! ",
	domain.SeverityError:   "x ",
	domain.SeveritySuccess: "+ ",
}

// Renderer writes styled log lines to out.
type Renderer struct {
	out     io.Writer
	noColor bool
}

// New creates a renderer. With noColor set, only the severity prefixes mark
// the lines.
func New(out io.Writer, noColor bool) *Renderer {
	return &Renderer{out: out, noColor: noColor}
}

// Event renders one log event.
func (r *Renderer) Event(e domain.LogEvent) {
	line := severityPrefix[e.Severity] + e.Text
	if r.noColor {
		fmt.Fprintln(r.out, line)
	} else {
		fmt.Fprintln(r.out, r.style(e.Severity).Render(line))
	}

	// The manual-reset hint is a plain string contract with the core; a
	// graphical shell would navigate to system settings here instead.
	if strings.Contains(e.Text, domain.ManualResetHint) {
		hint := "  (open your system network settings to reset manually)"
		if r.noColor {
			fmt.Fprintln(r.out, hint)
		} else {
			fmt.Fprintln(r.out, hintStyle.Render(hint))
		}
	}
}

// Events renders an ordered event sequence.
func (r *Renderer) Events(events []domain.LogEvent) {
	for _, e := range events {
		r.Event(e)
	}
}

func (r *Renderer) style(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityWarning:
		return warningStyle
	case domain.SeverityError:
		return errorStyle
	case domain.SeveritySuccess:
		return successStyle
	default:
		return infoStyle
	}
}
