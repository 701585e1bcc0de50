// Package session tracks the users connected to this node and runs the join
// round trip with the manager. Sessions are keyed by the host's opaque
// session handle; the node never interprets it.
package session

import (
	"sync"

	"github.com/pixil98/go-frontline/internal/state"
)

// Session is one connected client's identity as this node knows it. UserID
// and FactionIndex stay -1 until a join succeeds.
type Session struct {
	UserID       int64
	Name         string
	FactionIndex int
	Token        string
	Human        bool

	// PendingResume holds the transform a traveling user should spawn at,
	// staged by a join response and consumed once by the host.
	PendingResume *state.Transform
}

// Registry holds the node's live sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[string]*Session{},
	}
}

// Create registers a fresh session under the host's handle, replacing any
// stale one left by an earlier connection.
func (r *Registry) Create(handle string, human bool) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Session{
		UserID:       -1,
		FactionIndex: -1,
		Human:        human,
	}
	r.sessions[handle] = s
	return s
}

// Find returns the session for a handle, or nil.
func (r *Registry) Find(handle string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[handle]
}

// Remove drops a session when its connection closes.
func (r *Registry) Remove(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, handle)
}

// TakePendingResume consumes the staged resume transform, if any.
func (r *Registry) TakePendingResume(handle string) *state.Transform {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.sessions[handle]
	if s == nil || s.PendingResume == nil {
		return nil
	}
	t := s.PendingResume
	s.PendingResume = nil
	return t
}
