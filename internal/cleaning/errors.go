package cleaning

import "fmt"

// TransformError wraps a failure of one pipeline step with the step name.
type TransformError struct {
	Step  string
	Cause error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("cleaning step %s failed: %v", e.Step, e.Cause)
}

func (e *TransformError) Unwrap() error {
	return e.Cause
}

// MissingColumnError reports a transform whose target column is absent.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not present in dataset", e.Column)
}

// DateParseError reports a date cell that matched none of the accepted
// layouts. The whole transform fails on the first such cell.
type DateParseError struct {
	Column string
	Row    int
	Value  string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparsable date %q at row %d column %q", e.Value, e.Row, e.Column)
}
