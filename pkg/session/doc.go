// Package session orchestrates fold persistence across open documents.
//
// A Session pairs one open document buffer with its fold engine and the
// canonical path its fold set is stored under. The Manager tracks open
// sessions, restores persisted folds when a document opens, saves them when
// it closes, and sweeps every open document on process exit.
//
// # Lifecycle
//
// Open canonicalizes the buffer's path, builds a fold engine over the
// buffer, replays any persisted fold set through it, and fires the
// document_open hook. Close fires document_close, saves the current fold
// set, and forgets the session. Shutdown saves every open session and
// fires process_exit; afterwards the manager accepts no further opens.
//
// # Save semantics
//
// A document with no path is never persisted. A document with no active
// folds has its stale state file removed, so an empty fold set and a
// missing file are the same condition. Excluded documents are treated as
// having no folds. A failed write is logged as a warning and reported as
// ErrPersistenceWrite, but a bulk sweep keeps going: one unwritable
// document never blocks saving the others.
//
// # Restore semantics
//
// Restore never blocks an open. A missing, unreadable, or malformed state
// file simply restores nothing. Each persisted span is replayed through
// the engine individually; spans that no longer fit the document (out of
// bounds, or overlapping an already-restored fold) are skipped with a
// warning while the rest of the list still restores.
package session
