// Package render presents extraction results in the terminal: JSON values
// pretty-printed, record tables as a bordered grid, parse failures with
// the reason and the verbatim model output for prompt debugging.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/shpitdev/llm-data-extract/internal/extract"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Align(lipgloss.Center)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("160"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true)
)

// Result renders any of the three result shapes.
func Result(res extract.Result) string {
	if !res.Ok() {
		return Failure(res.Format, res.Failure)
	}
	if res.Format == extract.FormatCSV {
		return Table(res.Table)
	}
	return JSON(res.Value)
}

// JSON pretty-prints a decoded JSON value.
func JSON(value any) string {
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		// Values produced by encoding/json always re-marshal.
		return fmt.Sprintf("%v", value)
	}
	return string(b)
}

// Table renders a record table as a bordered grid, header first, row and
// column order preserved.
func Table(t *extract.RecordTable) string {
	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(t.Columns...).
		Rows(t.Rows...)
	return grid.Render()
}

// Failure renders a parse failure: what went wrong, then the untouched
// model output so the user can adjust the prompt and retry.
func Failure(format extract.Format, f *extract.ParseFailure) string {
	var b strings.Builder
	b.WriteString(failureTitleStyle.Render(fmt.Sprintf("Failed to parse %s", format)))
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("Error:"))
	b.WriteString(" ")
	b.WriteString(f.Reason)
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("Raw model output:"))
	b.WriteString("\n")
	b.WriteString(f.RawText)
	return b.String()
}
