package state

import "errors"

// Decoding errors.
var (
	// ErrMalformed indicates a fold set record that does not parse.
	ErrMalformed = errors.New("malformed fold set")
)

// Store errors.
var (
	// ErrNotFound indicates no persisted fold set exists for the document.
	ErrNotFound = errors.New("fold set not found")
)
