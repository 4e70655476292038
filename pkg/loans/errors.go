package loans

import "fmt"

// InvalidInputError reports loan parameters the engine refuses to compute
// with, such as a non-positive term or a negative rate.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
