package colormetric

import (
	"errors"
	"fmt"
)

// Sentinel kinds for color parsing errors.
var (
	ErrInvalidColorFormat = errors.New("invalid color format")
)

// FormatError names the input that failed to parse. It matches
// ErrInvalidColorFormat under errors.Is.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidColorFormat, e.Input)
}

func (e *FormatError) Unwrap() error { return ErrInvalidColorFormat }
