// Package ui renders arq output.
package ui

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	SecondaryColor = lipgloss.Color("#6C757D")

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Printer writes styled output to one writer.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer for out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintln(p.out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Value prints a label and a highlighted value.
func (p *Printer) Value(label string, value interface{}) {
	key := color.New(color.FgHiBlack).Sprint(label + ":")
	fmt.Fprintf(p.out, "%s %s\n", key, TitleStyle.Render(fmt.Sprint(value)))
}

// Footer prints a dimmed summary line.
func (p *Printer) Footer(format string, args ...interface{}) {
	fmt.Fprintln(p.out, SecondaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Table prints rows as a table. Columns are the union of every row's keys,
// with first leading and the rest in name order.
func (p *Printer) Table(first string, rows []map[string]interface{}) error {
	headers := Columns(first, rows)
	data := pterm.TableData{headers}
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, h := range headers {
			line[i] = Cell(row[h])
		}
		data = append(data, line)
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	_, err = fmt.Fprintln(p.out, out)
	return err
}

// Columns returns the header order used by Table.
func Columns(first string, rows []map[string]interface{}) []string {
	seen := map[string]bool{}
	var rest []string
	hasFirst := false
	for _, row := range rows {
		for k := range row {
			if k == first {
				hasFirst = true
				continue
			}
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	if hasFirst {
		return append([]string{first}, rest...)
	}
	return rest
}

// Cell formats a column value.
func Cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
