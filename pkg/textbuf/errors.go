package textbuf

import "errors"

// Buffer errors.
var (
	ErrRange        = errors.New("range is outside buffer bounds")
	ErrNoDecoration = errors.New("decoration not found")
)
