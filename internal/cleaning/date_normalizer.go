package cleaning

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/rental-pipeline/internal/dataset"
)

// CanonicalDateLayout is the form every date cell is rewritten into.
const CanonicalDateLayout = "2006-01-02"

// dateLayouts are the input forms accepted by the normalizer, tried in
// order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// DateNormalizer rewrites every value of Column into CanonicalDateLayout.
// Empty cells pass through unchanged (the raw listing data leaves
// last_review blank for never-reviewed rows). A non-empty cell matching
// none of the accepted layouts fails the whole transform: every published
// row must carry a well-formed date for downstream steps.
type DateNormalizer struct {
	Column string
}

// Name implements Transform.
func (t *DateNormalizer) Name() string { return "normalize_" + t.Column }

// Apply implements Transform.
func (t *DateNormalizer) Apply(_ context.Context, f *dataset.Frame) (*dataset.Frame, error) {
	col, ok := f.Column(t.Column)
	if !ok {
		return nil, &MissingColumnError{Column: t.Column}
	}

	out := f.Clone()
	for i, row := range out.Rows {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			row[col] = ""
			continue
		}
		parsed, err := parseDate(cell)
		if err != nil {
			return nil, &DateParseError{Column: t.Column, Row: i, Value: cell}
		}
		row[col] = parsed.Format(CanonicalDateLayout)
	}
	return out, nil
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
