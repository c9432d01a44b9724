// Package hub coordinates the participants of the live class room: join
// fan-out with initiator assignment, point-to-point signal relay, chat
// broadcast and disconnect cleanup.
package hub

import (
	"log/slog"
	"sync"

	"live-class-server/pkg/signal"
	"live-class-server/pkg/types"
)

// Hub.mu serializes membership changes: a registration and its fan-out (or an
// unregistration and its notice) form one atomic step. Without it, two
// overlapping joins could each register before either snapshots the room, and
// both sides of the new pair would hear about each other as non-initiator
// first. Holding the lock across the fan-out is safe because Sender.Send
// never blocks.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
}

func New() *Hub {
	return &Hub{registry: NewRegistry()}
}

// Join places p in the room and announces the pairing to both sides. Each
// existing member Q is introduced to the newcomer with isInitiator=false on
// the newcomer's side and isInitiator=true on Q's side, so every {P,Q} pair
// negotiates exactly one media offer, opened by the member that was already
// present. A repeated join re-runs the fan-out; clients treat peer-joined as
// idempotent.
func (h *Hub) Join(room string, p Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registry.Register(room, p) {
		slog.Debug("duplicate join", "peerId", p.ID())
	}
	for _, q := range h.registry.Members(room) {
		if q.ID() == p.ID() {
			continue
		}
		h.send(room, p, signal.EventPeerJoined, signal.PeerJoined{PeerID: q.ID(), IsInitiator: false})
		h.send(room, q, signal.EventPeerJoined, signal.PeerJoined{PeerID: p.ID(), IsInitiator: true})
	}
	slog.Info("participant joined", "room", room, "peerId", p.ID(), "participants", h.registry.Len())
}

// Relay forwards a signaling envelope to its target. The sender identity is
// always the authenticated connection id, never the client-supplied value.
// A target that is unknown, or the sender itself, drops the envelope without
// notice.
func (h *Hub) Relay(room, from string, env signal.Envelope) {
	if env.Target == from {
		slog.Debug("self-targeted signal dropped", "peerId", from)
		return
	}
	target, ok := h.registry.Get(env.Target)
	if !ok {
		slog.Debug("signal for unknown target dropped", "peerId", from, "target", env.Target)
		return
	}
	out := env
	out.Sender = from
	out.Target = ""
	h.send(room, target, signal.EventWebRTCSignal, out)
}

// Chat fans a text message out to everyone in the room, the sender included;
// the client tells "you" from "peer" by comparing sender ids.
func (h *Hub) Chat(room, from, text string) {
	msg := signal.ChatMessage{SenderID: from, Message: text}
	for _, m := range h.registry.Members(room) {
		h.send(room, m, signal.EventChat, msg)
	}
}

// Leave removes a participant and notifies the remaining members. Safe to
// call more than once per connection; only the call that actually removes
// the participant broadcasts the notice.
func (h *Hub) Leave(room, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.registry.Unregister(id) {
		return
	}
	for _, m := range h.registry.Members(room) {
		h.send(room, m, signal.EventPeerLeft, id)
	}
	slog.Info("participant left", "room", room, "peerId", id, "participants", h.registry.Len())
}

// Participants reports current presence, for the stats endpoint.
func (h *Hub) Participants() []types.Participant {
	return h.registry.Participants()
}

// send marshals one event for one recipient. A failed send means the
// recipient's channel is dead or backed up; the participant is cleaned up as
// if it had disconnected, without touching anyone else's session.
func (h *Hub) send(room string, to Sender, event string, data any) {
	raw, err := signal.EncodeFrame(event, data)
	if err != nil {
		slog.Warn("frame encode failed", "event", event, "error", err)
		return
	}
	if err := to.Send(raw); err != nil {
		slog.Warn("send failed, dropping participant", "peerId", to.ID(), "error", err)
		go h.Leave(room, to.ID())
	}
}
