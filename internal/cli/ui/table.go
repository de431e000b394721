// Package ui renders CLI output: aligned tables, headers and error messages.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Table renders rows under bold headers with aligned columns.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a table with the given headers
func NewTable(w io.Writer, noColor bool, headers ...string) *Table {
	return &Table{writer: w, headers: headers, noColor: noColor}
}

// AddRow adds a row to the table. Missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	bold := t.color(color.Bold, color.FgCyan)
	gray := t.color(color.FgHiBlack)

	cells := make([]string, len(t.headers))
	for i, header := range t.headers {
		cells[i] = bold.Sprint(padRight(header, widths[i]))
	}
	fmt.Fprintln(t.writer, strings.TrimRight(strings.Join(cells, "  "), " "))

	for i, width := range widths {
		cells[i] = gray.Sprint(strings.Repeat("─", width))
	}
	fmt.Fprintln(t.writer, strings.Join(cells, "  "))

	for _, row := range t.rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = padRight(cell, widths[i])
		}
		fmt.Fprintln(t.writer, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func (t *Table) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if t.noColor {
		c.DisableColor()
	}
	return c
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// KeyValue renders "key: value" lines with aligned values.
type KeyValue struct {
	writer  io.Writer
	keys    []string
	values  []string
	noColor bool
}

// NewKeyValue creates a key-value block
func NewKeyValue(w io.Writer, noColor bool) *KeyValue {
	return &KeyValue{writer: w, noColor: noColor}
}

// Add appends a pair.
func (kv *KeyValue) Add(key, value string) {
	kv.keys = append(kv.keys, key)
	kv.values = append(kv.values, value)
}

// Render writes the pairs
func (kv *KeyValue) Render() {
	width := 0
	for _, k := range kv.keys {
		width = max(width, len(k)+1)
	}
	cyan := color.New(color.FgCyan)
	if kv.noColor {
		cyan.DisableColor()
	}
	for i, k := range kv.keys {
		cyan.Fprint(kv.writer, padRight(k+":", width))
		fmt.Fprintf(kv.writer, " %s\n", kv.values[i])
	}
}

// Header writes a bold title underlined to its own width.
func Header(w io.Writer, title string, noColor bool) {
	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if noColor {
		bold.DisableColor()
		gray.DisableColor()
	}
	bold.Fprintln(w, title)
	gray.Fprintln(w, strings.Repeat("─", len(title)))
}
