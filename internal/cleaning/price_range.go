package cleaning

import (
	"context"

	"github.com/jonathan/rental-pipeline/internal/dataset"
)

// priceColumn is the numeric column the outlier filter operates on.
const priceColumn = "price"

// PriceRange keeps exactly the rows whose price lies in [Min, Max],
// inclusive on both ends. Rows with a missing or non-numeric price are
// treated as out of range and dropped.
type PriceRange struct {
	Min float64
	Max float64
}

// Name implements Transform.
func (t *PriceRange) Name() string { return "price_range" }

// Apply implements Transform. A dataset without a price column is a fatal
// error rather than a silent pass-through.
func (t *PriceRange) Apply(_ context.Context, f *dataset.Frame) (*dataset.Frame, error) {
	col, ok := f.Column(priceColumn)
	if !ok {
		return nil, &MissingColumnError{Column: priceColumn}
	}

	out := &dataset.Frame{Columns: append([]string(nil), f.Columns...)}
	for i := range f.Rows {
		price, err := f.Float(i, col)
		if err != nil {
			continue
		}
		if price < t.Min || price > t.Max {
			continue
		}
		out.Rows = append(out.Rows, append([]string(nil), f.Rows[i]...))
	}
	return out, nil
}
