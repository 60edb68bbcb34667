package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sweetpotato0/edubot/errors"
	"github.com/sweetpotato0/edubot/pkg/logging"
)

// Store persists session records. Implementations live under store/.
type Store interface {
	Save(ctx context.Context, record *Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// Manager owns the live sessions and their persistence. Live sessions are
// cached in memory; the store is the durable copy.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    Store
	logger   *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore sets the durable session store.
func WithStore(store Store) ManagerOption {
	return func(m *Manager) {
		m.store = store
	}
}

// NewManager creates a session manager. Without a store, sessions live only
// in memory.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		logger:   logging.WithComponent("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreate returns the live session for id, reviving it from the store
// if needed. An empty id creates a fresh session with a generated ID.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}

	if m.store != nil {
		record, err := m.store.Load(ctx, id)
		if err == nil {
			sess := NewFromRecord(record)
			m.sessions[id] = sess
			m.logger.Debug("session revived from store", "session_id", id)
			return sess, nil
		}
	}

	sess := New(id)
	m.sessions[id] = sess
	m.logger.Info("session created", "session_id", id)
	return sess, nil
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, errors.ErrNotFound)
	}
	return sess, nil
}

// Save persists a session snapshot to the store, if one is configured.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(ctx, sess.Snapshot()); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID(), err)
	}
	return nil
}

// Delete closes the session and removes it from memory and the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	if sess, ok := m.sessions[id]; ok {
		sess.Close()
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
	}
	m.logger.Info("session deleted", "session_id", id)
	return nil
}

// Reset clears the session's state in memory and in the store.
func (m *Manager) Reset(ctx context.Context, id string) error {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, errors.ErrNotFound)
	}

	sess.Reset()
	return m.Save(ctx, sess)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns the IDs of all live sessions.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}
