package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for data loading errors.
var (
	ErrDataNotFound = errors.New("data file not found")
	ErrDataFormat   = errors.New("malformed data")
)

// FormatError pinpoints a bad cell. It unwraps to ErrDataFormat.
type FormatError struct {
	File   string
	Line   int
	Column string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %s line %d: %s", ErrDataFormat, e.File, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s line %d column %s: %s", ErrDataFormat, e.File, e.Line, e.Column, e.Reason)
}

// Unwrap returns ErrDataFormat.
func (e *FormatError) Unwrap() error {
	return ErrDataFormat
}
