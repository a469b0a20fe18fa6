package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/store"
)

// MockSessionStore implements store.SessionStore in memory.
type MockSessionStore struct {
	CreateFn func(ctx context.Context, session *store.Session) error
	GetFn    func(ctx context.Context, id string) (*store.Session, error)

	// Now decides expiry in Get; defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	sessions map[string]*store.Session
}

var _ store.SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates a new empty mock store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*store.Session),
		Now:      time.Now,
	}
}

// Create implements store.SessionStore.
func (m *MockSessionStore) Create(ctx context.Context, session *store.Session) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, session)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return store.ErrDuplicate
	}
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

// Get implements store.SessionStore.
func (m *MockSessionStore) Get(ctx context.Context, id string) (*store.Session, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok || session.Expired(m.Now()) {
		return nil, store.ErrSessionNotFound
	}
	found := *session
	return &found, nil
}

// Delete implements store.SessionStore.
func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// DeleteExpired implements store.SessionStore.
func (m *MockSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored sessions, expired or not.
func (m *MockSessionStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
