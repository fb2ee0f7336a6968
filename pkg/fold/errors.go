package fold

import "errors"

// Fold operation errors. These are user-facing rejections: the operation
// aborts with no state change and is not retried.
var (
	ErrEmptyRange  = errors.New("fold range is empty after normalization")
	ErrOverlap     = errors.New("fold overlaps an existing fold")
	ErrOutOfBounds = errors.New("fold range is outside document bounds")
)

// Construction errors.
var (
	ErrNoBuffer = errors.New("text buffer is required")
	ErrConfig   = errors.New("invalid fold configuration")
)
