package hub

import (
	"sync"
	"time"

	"live-class-server/pkg/types"
)

// Sender is the hub's view of one connected client. Implemented by the
// websocket client in pkg/connections and by test doubles.
type Sender interface {
	ID() string
	Send(data []byte) error
}

type member struct {
	participant types.Participant
	sender      Sender
}

// Registry tracks every connected participant. It is owned by the Hub and is
// the only mutable shared state in the signaling core.
type Registry struct {
	mu      sync.RWMutex
	members map[string]*member
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[string]*member)}
}

// Register adds a participant to the given room. Registering an id twice is a
// no-op; the return reports whether the id was newly added.
func (r *Registry) Register(room string, s Sender) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[s.ID()]; ok {
		return false
	}
	r.members[s.ID()] = &member{
		participant: types.Participant{ID: s.ID(), Room: room, Joined: time.Now()},
		sender:      s,
	}
	return true
}

// Unregister removes a participant and reports whether it was present.
// Idempotent: disconnect cleanup can race with failed-send cleanup, and the
// loser of that race must see a clean no-op.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	return true
}

// Exists reports whether the id belongs to a currently connected participant.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

// Get returns the sender for a registered participant.
func (r *Registry) Get(id string) (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	if !ok {
		return nil, false
	}
	return m.sender, true
}

// Members returns a snapshot of the senders in the given room. Fan-out
// iterates the snapshot, never the live map.
func (r *Registry) Members(room string) []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Sender, 0, len(r.members))
	for _, m := range r.members {
		if m.participant.Room == room {
			out = append(out, m.sender)
		}
	}
	return out
}

// Participants returns a snapshot of the current presence records.
func (r *Registry) Participants() []types.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Participant, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m.participant)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
