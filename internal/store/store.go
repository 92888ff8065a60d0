package store

import (
	"context"
	"errors"

	"github.com/fiascohq/fiasco/backend/internal/model/profile"
	"github.com/fiascohq/fiasco/backend/internal/model/session"
)

// ErrSessionNotFound reports a lookup for an id the store has never seen.
// For read paths this is the expected first-visit condition, not a failure.
var ErrSessionNotFound = errors.New("session not found")

// Store is the durable mapping from session id to submitted profiles and
// their analyses. Implementations must serialize merges for the same id
// while letting different ids proceed concurrently, and must never expose
// a half-merged session to readers.
type Store interface {
	// GetOrCreate resolves a session id. An empty id mints a fresh one
	// with an empty session behind it; a known id is returned as-is; an
	// unknown id fails with ErrSessionNotFound and the caller decides
	// whether that is fatal.
	GetOrCreate(ctx context.Context, id string) (string, error)

	// Merge appends urls (duplicates kept) and overwrites results entries
	// by URL, creating the session when the id is new, and returns the
	// merged session. Last write wins per results key.
	Merge(ctx context.Context, id string, urls []string, results map[string]profile.Analysis) (session.Session, error)

	// Get returns the session for id, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (session.Session, error)

	// Clear removes the session. Removing an absent id is not an error.
	Clear(ctx context.Context, id string) error
}
