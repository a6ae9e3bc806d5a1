package domain

import (
	"errors"
	"fmt"
)

// ErrNoInputFile is returned when no model output file matches the run's
// input pattern. No frames are produced.
var ErrNoInputFile = errors.New("no model output file found")

// ErrAmbiguousInput is returned in strict mode when more than one file
// matches the input pattern for a run.
var ErrAmbiguousInput = errors.New("multiple model output files match")

// MissingVariableError reports a required variable absent from the dataset.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("required variable %q missing from dataset", e.Name)
}

// DatasetOpenError reports a model output file that could not be opened or
// did not hold a structurally valid run.
type DatasetOpenError struct {
	Path string
	Err  error
}

func (e *DatasetOpenError) Error() string {
	return fmt.Sprintf("open dataset %s: %v", e.Path, e.Err)
}

func (e *DatasetOpenError) Unwrap() error { return e.Err }

// ReferenceDataError reports an unavailable geospatial overlay layer. The
// renderer aborts rather than emitting frames with missing overlays.
type ReferenceDataError struct {
	Layer string
	Err   error
}

func (e *ReferenceDataError) Error() string {
	return fmt.Sprintf("reference data layer %s unavailable: %v", e.Layer, e.Err)
}

func (e *ReferenceDataError) Unwrap() error { return e.Err }
