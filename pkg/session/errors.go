package session

import "errors"

// Lifecycle errors.
var (
	// ErrAlreadyOpen indicates a document path that already has an open session.
	ErrAlreadyOpen = errors.New("document already open")

	// ErrNotOpen indicates a session the manager is not tracking.
	ErrNotOpen = errors.New("session not open")

	// ErrShutdown indicates the manager has been shut down.
	ErrShutdown = errors.New("manager is shut down")
)

// Persistence errors.
var (
	// ErrPersistenceWrite indicates a fold set could not be written or removed.
	ErrPersistenceWrite = errors.New("fold set write failed")
)

// Construction errors.
var (
	// ErrNoStore indicates a nil state store was passed to NewManager.
	ErrNoStore = errors.New("state store is required")

	// ErrNoBuffer indicates a nil buffer was passed to Open.
	ErrNoBuffer = errors.New("buffer is required")
)
