package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds surfaced by the grid and the initial-state loader. Callers branch on
// these with errors.Is or KindOf, never on message text.
var (
	ErrEmptyInput        = errors.New("empty input: no dimension line")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrOutOfBounds       = errors.New("coordinate out of bounds")
	ErrIO                = errors.New("i/o failure")
)

// Kind classifies an error into the closed set above
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInput
	KindInvalidFormat
	KindInvalidDimensions
	KindOutOfBounds
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"
	case KindInvalidFormat:
		return "InvalidFormat"
	case KindInvalidDimensions:
		return "InvalidDimensions"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindIO:
		return "IoFailure"
	default:
		return "Unknown"
	}
}

// KindOf returns the kind of err, or KindUnknown if err is nil or foreign
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrInvalidFormat):
		return KindInvalidFormat
	case errors.Is(err, ErrInvalidDimensions):
		return KindInvalidDimensions
	case errors.Is(err, ErrOutOfBounds):
		return KindOutOfBounds
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindUnknown
	}
}

// OutOfBoundsError names the offending coordinate and the board it missed.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) out of bounds for %dx%d grid", e.X, e.Y, e.Width, e.Height)
}

// Is reports a match against ErrOutOfBounds
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// IOError wraps a failure of the file-read collaborator.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports a match against ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
