// Package observability provides formatted output utilities for verbose
// CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/rental-pipeline/internal/dataset"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxRowsToShow is the number of sample rows displayed for a frame
	maxRowsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFrame outputs a human-readable summary of a dataset frame: shape,
// columns, and the first few rows.
func (p *Printer) PrintFrame(title string, f *dataset.Frame) {
	if f == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rows:     %d\n", f.Len()))
	sb.WriteString(fmt.Sprintf("Columns:  %s\n", strings.Join(f.Columns, ", ")))

	shown := f.Len()
	if shown > maxRowsToShow {
		shown = maxRowsToShow
	}
	if shown > 0 {
		sb.WriteString("\n")
	}
	for _, row := range f.Rows[:shown] {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}
	if f.Len() > maxRowsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more rows\n", f.Len()-maxRowsToShow))
	}

	p.printBox(title, strings.TrimRight(sb.String(), "\n"))
}
