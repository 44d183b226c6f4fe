// Package ui holds the terminal colors and tables of the skilltree CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"skilltree/internal/domain"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Table prints a simple aligned table.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// SeverityLabel colors a problem severity
func SeverityLabel(s domain.Severity) string {
	if s == domain.SeverityError {
		return Bad.Sprint(string(s))
	}
	return Warn.Sprint(string(s))
}

// Problems prints a problem report followed by a one-line summary
func Problems(w io.Writer, problems []domain.Problem) {
	if len(problems) == 0 {
		fmt.Fprintf(w, "%s no problems\n", StatusIcon(true))
		return
	}

	rows := make([][]string, 0, len(problems))
	errors := 0
	for _, p := range problems {
		if p.Severity == domain.SeverityError {
			errors++
		}
		rows = append(rows, []string{SeverityLabel(p.Severity), p.Source, p.Subject, p.Message})
	}
	Table(w, []string{"SEVERITY", "SOURCE", "SUBJECT", "MESSAGE"}, rows)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d error(s), %d warning(s)\n", StatusIcon(errors == 0), errors, len(problems)-errors)
}
