package session

import (
	"context"
	"fmt"
	"sync"
)

// HookType represents different lifecycle hooks
type HookType string

const (
	// HookDocumentOpen is called after a document opens and its folds restore
	HookDocumentOpen HookType = "document_open"

	// HookDocumentClose is called when a document is about to close
	HookDocumentClose HookType = "document_close"

	// HookProcessExit is called after the process-exit save sweep
	HookProcessExit HookType = "process_exit"
)

// HookHandler is a function that handles a hook event. The data map
// carries event detail such as "document", "session_id", and "restored".
type HookHandler func(ctx context.Context, data map[string]interface{}) error

// Hooks manages lifecycle hook handlers. Handlers run in registration
// order; registration and execution are safe for concurrent use.
type Hooks struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[HookType][]hookEntry
}

type hookEntry struct {
	id int
	fn HookHandler
}

// NewHooks creates an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{
		handlers: make(map[HookType][]hookEntry),
	}
}

// Register registers a handler for a hook type and returns a function
// that removes it again.
func (h *Hooks) Register(hookType HookType, handler HookHandler) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.handlers[hookType] = append(h.handlers[hookType], hookEntry{id: id, fn: handler})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		entries := h.handlers[hookType]
		for i, e := range entries {
			if e.id == id {
				h.handlers[hookType] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Execute executes all handlers for the given hook type. No handlers
// registered is not an error. The first handler error stops the run.
func (h *Hooks) Execute(ctx context.Context, hookType HookType, data map[string]interface{}) error {
	h.mu.RLock()
	entries := make([]hookEntry, len(h.handlers[hookType]))
	copy(entries, h.handlers[hookType])
	h.mu.RUnlock()

	for _, e := range entries {
		if err := e.fn(ctx, data); err != nil {
			return fmt.Errorf("hook %s failed: %w", hookType, err)
		}
	}
	return nil
}
