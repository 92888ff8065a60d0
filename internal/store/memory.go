package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fiascohq/fiasco/backend/internal/model/profile"
	"github.com/fiascohq/fiasco/backend/internal/model/session"
)

// Memory implements Store with an in-process map, suitable for a single
// instance deployment and for tests. Each session carries its own mutex so
// merges for one id serialize without blocking other sessions; the outer
// lock only guards the map itself.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

type memorySession struct {
	mu   sync.Mutex
	data session.Session
}

// NewMemory returns an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*memorySession)}
}

// GetOrCreate resolves or mints a session id.
func (m *Memory) GetOrCreate(_ context.Context, id string) (string, error) {
	if id == "" {
		fresh := uuid.NewString()
		m.mu.Lock()
		m.sessions[fresh] = &memorySession{data: session.Session{
			ID:      fresh,
			Results: make(map[string]profile.Analysis),
		}}
		m.mu.Unlock()
		return fresh, nil
	}

	m.mu.RLock()
	_, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return "", ErrSessionNotFound
	}
	return id, nil
}

// Merge appends urls and overwrites results entries under the session's own
// lock, creating the session when the id is new.
func (m *Memory) Merge(_ context.Context, id string, urls []string, results map[string]profile.Analysis) (session.Session, error) {
	entry := m.entryFor(id)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.data.URLs = append(entry.data.URLs, urls...)
	for url, analysis := range results {
		entry.data.Results[url] = analysis.Clone()
	}
	entry.data.LastUpdated = time.Now().UTC()

	return entry.data.Clone(), nil
}

// Get returns a snapshot of the session.
func (m *Memory) Get(_ context.Context, id string) (session.Session, error) {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return session.Session{}, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.data.Clone(), nil
}

// Clear removes the session, silently succeeding when it is already gone.
func (m *Memory) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) entryFor(id string) *memorySession {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		entry = &memorySession{data: session.Session{
			ID:      id,
			Results: make(map[string]profile.Analysis),
		}}
		m.sessions[id] = entry
	}
	return entry
}
