package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/edusuite/school-admin-web/internal/metrics"
)

type entry struct {
	session  Session
	deadline time.Time
}

// InMemoryStore is an in-memory implementation of Store with a sliding
// idle timeout: every successful Get pushes the deadline forward.
type InMemoryStore struct {
	mu          sync.Mutex
	idleTimeout time.Duration
	entries     map[string]entry
}

// NewInMemoryStore creates a new in-memory session store.
func NewInMemoryStore(idleTimeout time.Duration) *InMemoryStore {
	return &InMemoryStore{
		idleTimeout: idleTimeout,
		entries:     make(map[string]entry),
	}
}

// Put creates or replaces a session.
func (r *InMemoryStore) Put(sessionID string, session Session) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[sessionID]; !ok {
		metrics.ActiveSessions.Inc()
	}
	r.entries[sessionID] = entry{
		session:  session,
		deadline: time.Now().Add(r.idleTimeout),
	}
	return nil
}

// Get retrieves a session and extends its idle deadline. Expired
// sessions are dropped and reported as absent.
func (r *InMemoryStore) Get(sessionID string) (Session, bool) {
	if sessionID == "" {
		return Session{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(e.deadline) {
		delete(r.entries, sessionID)
		metrics.ActiveSessions.Dec()
		return Session{}, false
	}

	e.deadline = time.Now().Add(r.idleTimeout)
	r.entries[sessionID] = e
	return e.session, true
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (r *InMemoryStore) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[sessionID]; ok {
		delete(r.entries, sessionID)
		metrics.ActiveSessions.Dec()
	}
}
