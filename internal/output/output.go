// Package output renders gitlet command results for humans and, with
// --json, for tools.
//
// Human output is plain text in the classic gitlet layout; lipgloss styles
// only apply when the writer is a terminal, so piped output stays byte-exact.
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//	printer.Banner("Branches")
//	printer.Fail(err) // one line, or {"error": "...", "kind": "..."}
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/systemshift/gitlet/internal/errs"
)

// Printer handles formatted output to a writer.
type Printer struct {
	w      io.Writer
	json   bool
	styles *Styles
}

// Styles holds lipgloss styles for human-readable output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Title   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Accent  lipgloss.Style
}

// NewPrinter creates a new Printer.
// If jsonMode is true, results and errors are JSON encoded.
// If isTTY is true, colors are enabled for human output.
func NewPrinter(writer io.Writer, jsonMode bool, isTTY bool) *Printer {
	styles := &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // Red
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),           // Yellow
		Bold:    lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")), // Blue
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),            // Cyan
		Value:   lipgloss.NewStyle(),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")), // Magenta
	}

	if !isTTY {
		plain := lipgloss.NewStyle()
		styles.Error = plain
		styles.Warning = plain
		styles.Bold = plain
		styles.Dim = plain
		styles.Title = plain
		styles.Key = plain
		styles.Value = plain
		styles.Accent = plain
	}

	return &Printer{
		w:      writer,
		json:   jsonMode,
		styles: styles,
	}
}

// IsJSON returns true if the printer is in JSON mode.
func (p *Printer) IsJSON() bool {
	return p.json
}

// Styles exposes the active styles.
func (p *Printer) Styles() *Styles {
	return p.styles
}

// Fail reports a refused operation. Human mode writes the error's message
// as a single line on the main writer; JSON mode writes
// {"error": "...", "kind": "..."}.
func (p *Printer) Fail(err error) {
	msg := errs.Message(err)
	if p.json {
		mustWrite(p.w.Write(ErrorJSON(msg, errs.KindOf(err).String())))
		mustWrite(fmt.Fprintln(p.w))
		return
	}
	mustWrite(fmt.Fprintln(p.w, p.styles.Error.Render(msg)))
}

// Warn reports a non-fatal notice, such as a merge conflict.
func (p *Printer) Warn(msg string) {
	if p.json {
		_ = p.writeJSON(map[string]any{"warning": msg})
		return
	}
	mustWrite(fmt.Fprintln(p.w, p.styles.Warning.Render(msg)))
}

// Banner writes a "=== title ===" heading line.
func (p *Printer) Banner(title string) {
	mustWrite(fmt.Fprintln(p.w, p.styles.Title.Render("=== "+title+" ===")))
}

// Print formats and writes to the output without a newline.
func (p *Printer) Print(format string, args ...any) {
	mustWrite(fmt.Fprintf(p.w, format, args...))
}

// Println writes a line to the output.
func (p *Printer) Println(args ...any) {
	mustWrite(fmt.Fprintln(p.w, args...))
}

// KeyValue renders a key-value pair with styles applied.
// Format: "Key: Value"
func (p *Printer) KeyValue(key string, value string) {
	styledKey := p.styles.Key.Render(key + ":")
	styledValue := p.styles.Value.Render(value)
	mustWrite(fmt.Fprintf(p.w, "%s %s\n", styledKey, styledValue))
}

func (p *Printer) writeJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteJSON encodes any data as JSON and writes it.
func (p *Printer) WriteJSON(data any) error {
	return p.writeJSON(data)
}

// ErrorJSON returns JSON-formatted error bytes.
// Format: {"error": "message", "kind": "precondition"}
func ErrorJSON(message string, kind string) []byte {
	data := map[string]any{
		"error": message,
		"kind":  kind,
	}
	result, _ := json.Marshal(data)
	return result
}

// mustWrite panics if a write operation fails.
// Use this to wrap write operations that should never fail
// (e.g., writing to stdout/stderr or buffers).
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}
