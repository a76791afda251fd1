package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for artifacts that are neither plain text nor .eml
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrCorruptContainer is returned when an .eml artifact cannot be parsed
	ErrCorruptContainer = errors.New("corrupt mail container")
)

// ExtractionError reports why an artifact could not be normalized
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("extract content: %v", e.Err)
	}
	return fmt.Sprintf("extract content from %q: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func corrupt(name string, err error) *ExtractionError {
	return &ExtractionError{Name: name, Err: fmt.Errorf("%w: %v", ErrCorruptContainer, err)}
}
