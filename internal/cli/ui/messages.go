package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message describes a formatted diagnostic.
type Message struct {
	Level       Level
	Context     string
	Problem     string
	Details     []string
	Suggestions []string
	Help        []string
	NoColor     bool
}

// Format renders a diagnostic:
//
//	✗ CLASS NOT FOUND: Bkie
//	   no class has the simple name Bkie
//
//	   Did you mean: Bike?
//
//	   → list classes: ogm inspect
func Format(m Message) string {
	var b strings.Builder

	var header, body *color.Color
	var symbol string
	switch m.Level {
	case LevelWarning:
		header, body, symbol = color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "!"
	case LevelInfo:
		header, body, symbol = color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "i"
	default:
		header, body, symbol = color.New(color.FgRed, color.Bold), color.New(color.FgRed), "✗"
	}
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	if m.NoColor {
		for _, c := range []*color.Color{header, body, yellow, cyan} {
			c.DisableColor()
		}
	}

	if m.Context != "" {
		header.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(m.Context))
		body.Fprintf(&b, "   %s\n", m.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}
	for _, d := range m.Details {
		body.Fprintf(&b, "   %s\n", d)
	}

	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}

	if len(m.Help) > 0 {
		b.WriteString("\n")
		for _, h := range m.Help {
			cyan.Fprintf(&b, "   → %s\n", h)
		}
	}
	return b.String()
}

// Write writes a formatted message to w.
func Write(w io.Writer, m Message) {
	fmt.Fprint(w, Format(m))
}

// Success formats a one-line success message
func Success(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// ClassNotFound formats the message for a simple name no class carries.
func ClassNotFound(name string, suggestions []string, noColor bool) string {
	return Format(Message{
		Context:     "class not found",
		Problem:     fmt.Sprintf("no class has the simple name %s", name),
		Suggestions: suggestions,
		Help:        []string{"list classes: ogm inspect"},
		NoColor:     noColor,
	})
}

// AmbiguousClass formats the message for a simple name several classes carry.
func AmbiguousClass(name string, candidates []string, noColor bool) string {
	return Format(Message{
		Context: "ambiguous class name",
		Problem: fmt.Sprintf("%d classes have the simple name %s", len(candidates), name),
		Details: candidates,
		Help:    []string{"use the fully-qualified name: ogm inspect --class <name>"},
		NoColor: noColor,
	})
}

// ValidationFailed formats annotation and inheritance failures.
func ValidationFailed(failures []error, strict bool, noColor bool) string {
	level := LevelWarning
	if strict {
		level = LevelError
	}
	details := make([]string, len(failures))
	for i, err := range failures {
		details[i] = err.Error()
	}
	return Format(Message{
		Level:   level,
		Context: "validation failed",
		Problem: fmt.Sprintf("%d class(es) failed validation", len(failures)),
		Details: details,
		NoColor: noColor,
	})
}

// ConfigError formats a configuration problem.
func ConfigError(err error, noColor bool) string {
	return Format(Message{
		Context: "configuration error",
		Problem: err.Error(),
		Help:    []string{"view config: cat ogm.yaml", "get help: ogm --help"},
		NoColor: noColor,
	})
}
