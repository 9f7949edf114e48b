package layout

import (
	"errors"
	"fmt"

	"github.com/dshills/chatterm/internal/renderer/core"
)

// Sentinel errors for layout operations.
var (
	// ErrUnrenderable is returned when a wrapping layout cannot make
	// progress, such as a wide character in a one-column budget.
	ErrUnrenderable = errors.New("text cannot be rendered at this width")

	// ErrRowOutOfRange is returned when a coordinate names a row the
	// layout does not have.
	ErrRowOutOfRange = errors.New("row out of layout range")
)

// UnrenderableError records where segmentation stalled.
type UnrenderableError struct {
	Offset core.Offset
	Width  int
}

// Error implements the error interface.
func (e *UnrenderableError) Error() string {
	return fmt.Sprintf("wide character at offset %d will not fit in %d column(s)", e.Offset, e.Width)
}

// Unwrap returns ErrUnrenderable.
func (e *UnrenderableError) Unwrap() error {
	return ErrUnrenderable
}
