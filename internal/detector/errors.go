package detector

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidImage means the bytes did not decode to a usable pixel buffer
	ErrInvalidImage = errors.New("invalid image data")
	// ErrModelUnavailable means a network is not loaded or failed to run
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrEmptyRegion means the padded and clamped face box encloses no pixels
	ErrEmptyRegion = errors.New("face region is empty")
)

// ModelFailure records why one network could not be loaded
type ModelFailure struct {
	Model string
	Path  string
	Err   error
}

func (f ModelFailure) Error() string {
	if f.Path == "" {
		return fmt.Sprintf("%s: %v", f.Model, f.Err)
	}
	return fmt.Sprintf("%s (%s): %v", f.Model, f.Path, f.Err)
}

func (f ModelFailure) Unwrap() error {
	return f.Err
}

// LoadError is returned by Models.Load when at least one network failed
type LoadError struct {
	Failures []ModelFailure
}

func (e *LoadError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return "failed to load models: " + strings.Join(parts, "; ")
}

func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Failed reports whether the named model is among the failures
func (e *LoadError) Failed(model string) bool {
	for _, f := range e.Failures {
		if f.Model == model {
			return true
		}
	}
	return false
}
