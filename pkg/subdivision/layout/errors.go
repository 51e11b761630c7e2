package layout

import "errors"

var (
	// ErrInvalidBoundary indicates the parcel outline is not a closed,
	// simple, positive-area polygon. A run never starts on such input.
	ErrInvalidBoundary = errors.New("layout: boundary must be a closed, simple, positive-area polygon")
	// ErrDuplicateRule indicates two constraint rules target the same parameter.
	ErrDuplicateRule = errors.New("layout: duplicate constraint parameter")
	// ErrUnknownRule indicates a requested constraint parameter has no rule.
	ErrUnknownRule = errors.New("layout: no rule for parameter")
)
