// Package journal provides an append-only debugging journal of uniflow
// activity: dispatched intents, published states, and emitted effects,
// persisted to SQLite for post-mortem inspection.
//
// The journal is a devtools artifact, not restorable UI state: nothing in
// uniflow reloads application state from it.
package journal

import (
	"context"
	"time"
)

// Kind discriminates what a journal entry records.
type Kind string

const (
	KindIntent Kind = "intent"
	KindState  Kind = "state"
	KindEffect Kind = "effect"
)

// Entry is one recorded event.
type Entry struct {
	ID         int64
	Store      string
	DispatchID string
	Kind       Kind
	Type       string // short type name, e.g. "feed.ToggleLike"
	Timestamp  time.Time
	Payload    []byte // JSON snapshot of the value, best effort
}

// Journal defines the interface for persisting and retrieving entries.
type Journal interface {
	// Append records a new entry. The entry ID and timestamp are assigned
	// by the journal.
	Append(ctx context.Context, store string, dispatchID string, kind Kind, typeName string, payload []byte) error

	// GetByDispatchID retrieves all entries correlated to one dispatch.
	GetByDispatchID(ctx context.Context, dispatchID string) ([]Entry, error)

	// GetRange retrieves entries within a time range, oldest first.
	GetRange(ctx context.Context, start, end time.Time) ([]Entry, error)

	// Recent retrieves the most recent entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close closes the journal and releases resources.
	Close() error
}
