package core

import "errors"

var (
	// ErrDegenerateVector is returned when a zero-length vector is normalized
	ErrDegenerateVector = errors.New("degenerate vector: zero length")

	// ErrIndexOutOfRange is returned for component indices outside 0..2
	ErrIndexOutOfRange = errors.New("vector component index out of range")
)
