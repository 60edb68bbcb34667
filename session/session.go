// Package session holds the per-conversation state of the assistant: the
// message transcript, the course context and the last routed category. All
// state is keyed by session ID; nothing is shared across sessions.
package session

import (
	"sync"
	"time"

	"github.com/sweetpotato0/edubot/convo"
	"github.com/sweetpotato0/edubot/errors"
	"github.com/sweetpotato0/edubot/history"
	"github.com/sweetpotato0/edubot/message"
	"github.com/sweetpotato0/edubot/router"
)

// State represents the lifecycle state of a session.
type State string

const (
	StateActive State = "active"
	StateClosed State = "closed"
)

// Session is one user's conversation. Mutation happens inside Turn, which
// serializes whole turns; concurrent messages to the same session queue up
// rather than interleave.
type Session struct {
	mu sync.Mutex

	id        string
	state     State
	createdAt time.Time
	updatedAt time.Time

	// LastCategory is the category that handled the previous routed turn.
	LastCategory router.Category
	// Context is the course memory consumed by prompts.
	Context *convo.Context
	// History is the ordered message transcript.
	History *history.History
}

// New creates an active session with empty state.
func New(id string) *Session {
	now := time.Now()
	return &Session{
		id:        id,
		state:     StateActive,
		createdAt: now,
		updatedAt: now,
		Context:   &convo.Context{},
		History:   history.New(),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Turn runs fn with exclusive access to the session. The whole
// read-context, route, generate, append sequence of a turn runs inside one
// critical section.
func (s *Session) Turn(fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return errors.ErrSessionClosed
	}
	err := fn(s)
	s.updatedAt = time.Now()
	return err
}

// Reset clears the transcript, the course context and the last category.
// The session ID survives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.History.Clear()
	s.Context.Clear()
	s.LastCategory = router.CategoryNone
	s.updatedAt = time.Now()
}

// Close marks the session closed; further Turn calls fail.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
	s.updatedAt = time.Now()
}

// Record is the serializable snapshot of a session, used by the stores.
type Record struct {
	ID           string             `json:"id"`
	State        State              `json:"state"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	LastCategory router.Category    `json:"last_category,omitempty"`
	Context      *convo.Context     `json:"context,omitempty"`
	Messages     []*message.Message `json:"messages,omitempty"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cloned := *r
	cloned.Context = r.Context.Clone()
	cloned.Messages = message.CloneMessages(r.Messages)
	return &cloned
}

// Snapshot captures the session as a record. It takes the session lock,
// so it must not be called from inside a Turn callback.
func (s *Session) Snapshot() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *Record {
	return &Record{
		ID:           s.id,
		State:        s.state,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
		LastCategory: s.LastCategory,
		Context:      s.Context.Clone(),
		Messages:     s.History.Messages(),
	}
}

// NewFromRecord rebuilds a session from a stored record.
func NewFromRecord(record *Record) *Session {
	s := New(record.ID)
	s.state = record.State
	if !record.CreatedAt.IsZero() {
		s.createdAt = record.CreatedAt
	}
	if !record.UpdatedAt.IsZero() {
		s.updatedAt = record.UpdatedAt
	}
	s.LastCategory = record.LastCategory
	if record.Context != nil {
		s.Context = record.Context.Clone()
	}
	s.History = history.FromMessages(record.Messages)
	return s
}
