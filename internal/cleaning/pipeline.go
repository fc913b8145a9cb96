// Package cleaning applies row-level cleaning transforms to tabular
// datasets before they are published as pipeline artifacts.
package cleaning

import (
	"context"

	"github.com/jonathan/rental-pipeline/internal/dataset"
)

// Transform is a single cleaning operation over a frame. Implementations
// must not mutate their input; they return a new frame (or the input
// unchanged when the operation is a no-op).
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *dataset.Frame) (*dataset.Frame, error)
}

// Pipeline composes transforms in order.
type Pipeline struct {
	steps []Transform
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{} }

// Add appends a transform and returns the pipeline for chaining.
func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Run applies every transform in order. The first failure aborts the run
// with that transform's error.
func (p *Pipeline) Run(ctx context.Context, f *dataset.Frame) (*dataset.Frame, error) {
	cur := f
	var err error
	for _, t := range p.steps {
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, &TransformError{Step: t.Name(), Cause: err}
		}
	}
	return cur, nil
}

// Clean runs the standard cleaning pipeline for listing datasets: drop
// price outliers outside [minPrice, maxPrice], then normalize the
// last_review column to canonical dates. The input frame is not modified.
func Clean(ctx context.Context, f *dataset.Frame, minPrice, maxPrice float64) (*dataset.Frame, error) {
	pipeline := NewPipeline().
		Add(&PriceRange{Min: minPrice, Max: maxPrice}).
		Add(&DateNormalizer{Column: "last_review"})
	return pipeline.Run(ctx, f)
}
