// Package dataset provides a small in-memory tabular dataset backed by CSV
// files, used as the unit of exchange between pipeline steps.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Frame is a column-named table of string cells. The header order is
// preserved through read/write; rows are dense (every row has exactly one
// cell per column).
type Frame struct {
	Columns []string
	Rows    [][]string
}

// FormatError represents malformed tabular input.
type FormatError struct {
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dataset format error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("dataset format error: %s", e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// ReadCSV parses CSV content with a mandatory header row.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &FormatError{Message: "reading CSV", Cause: err}
	}
	if len(records) == 0 {
		return nil, &FormatError{Message: "missing header row"}
	}

	f := &Frame{Columns: records[0]}
	if len(records) > 1 {
		f.Rows = records[1:]
	}
	return f, nil
}

// LoadCSV reads a CSV file from disk into a frame.
func LoadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	f, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset file %s: %w", path, err)
	}
	return f, nil
}

// WriteCSV serializes the frame as CSV: header first, one line per row, no
// synthetic index column.
func (f *Frame) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(f.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the frame to a file, replacing any existing content.
func (f *Frame) SaveCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.WriteCSV(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Column returns the index of the named column.
func (f *Frame) Column(name string) (int, bool) {
	for i, c := range f.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Float parses the cell at (row, col) as a float64. Empty cells are an
// error, as are cells that do not parse as a number.
func (f *Frame) Float(row, col int) (float64, error) {
	cell := strings.TrimSpace(f.Rows[row][col])
	if cell == "" {
		return 0, &FormatError{Message: fmt.Sprintf("empty numeric cell at row %d column %q", row, f.Columns[col])}
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, &FormatError{Message: fmt.Sprintf("non-numeric cell at row %d column %q", row, f.Columns[col]), Cause: err}
	}
	return v, nil
}

// Clone returns a deep copy of the frame. Mutating the copy never affects
// the original.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Rows:    make([][]string, len(f.Rows)),
	}
	for i, row := range f.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
