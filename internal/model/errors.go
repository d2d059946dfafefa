package model

import "fmt"

// InvalidInputError reports a malformed or out-of-range LoanRequest field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// SchemaError reports a feature record that does not match the fitted
// transform, or a scorer fed a vector of the wrong width.
type SchemaError struct {
	Feature string
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.Feature == "" {
		return "schema mismatch: " + e.Reason
	}
	return fmt.Sprintf("schema mismatch: feature %q: %s", e.Feature, e.Reason)
}

// ModelOutputError reports a PD or LGD value outside its valid range.
type ModelOutputError struct {
	Output string
	Value  float64
	Bound  string
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("model output out of range: %s=%v, expected %s", e.Output, e.Value, e.Bound)
}

// ArtifactLoadError reports a model bundle that could not be loaded.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load model bundle %q: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}
