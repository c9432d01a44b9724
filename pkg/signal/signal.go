// Package signal defines the wire protocol between the live-class web client
// and the hub: the outer event frame and the payload shapes for join
// announcements, WebRTC signaling envelopes and chat.
package signal

import (
	"encoding/json"
	"errors"

	"github.com/pion/webrtc/v4"
)

// Event names are part of the wire contract with the existing web client and
// must not change.
const (
	EventJoin         = "join"
	EventWelcome      = "welcome"
	EventPeerJoined   = "peer-joined"
	EventPeerLeft     = "peer-left"
	EventWebRTCSignal = "webrtc_signal"
	EventChat         = "chat message"
)

var (
	ErrMissingEvent      = errors.New("signal: frame has no event")
	ErrMalformedEnvelope = errors.New("signal: envelope needs exactly one of sdp or ice")
)

// Frame is the outer shape of every websocket message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeFrame parses one inbound websocket message.
func DecodeFrame(raw []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Frame{}, err
	}
	if f.Event == "" {
		return Frame{}, ErrMissingEvent
	}
	return f, nil
}

// EncodeFrame marshals an event and its payload into a single wire frame.
func EncodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

// Envelope is one relayed WebRTC signaling message. Exactly one of SDP or ICE
// is set; beyond that shape the contents are opaque to the hub. Target names
// the recipient on the way in, Sender carries the authenticated origin on the
// way out.
type Envelope struct {
	SDP    *webrtc.SessionDescription `json:"sdp,omitempty"`
	ICE    *webrtc.ICECandidateInit   `json:"ice,omitempty"`
	Target string                     `json:"target,omitempty"`
	Sender string                     `json:"sender,omitempty"`
}

// DecodeEnvelope parses a webrtc_signal payload, rejecting anything that does
// not carry exactly one of a session description or an ICE candidate.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	if (env.SDP == nil) == (env.ICE == nil) {
		return Envelope{}, ErrMalformedEnvelope
	}
	return env, nil
}

// Welcome tells a freshly connected client its assigned id. Socket.IO hands
// the id over implicitly on connect; a plain websocket transport has to say
// it out loud so the client can match chat sender ids against its own.
type Welcome struct {
	PeerID string `json:"peerId"`
}

// PeerJoined announces a counterpart and which side opens the media offer.
type PeerJoined struct {
	PeerID      string `json:"peerId"`
	IsInitiator bool   `json:"isInitiator"`
}

// ChatMessage is the broadcast form of a chat line.
type ChatMessage struct {
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
}
