// Package connections attaches websocket clients to the hub: one read pump
// and one write pump per connection, with inbound frames dispatched in the
// order they arrive.
package connections

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"live-class-server/pkg/hub"
	"live-class-server/pkg/misc"
	"live-class-server/pkg/signal"
	"live-class-server/pkg/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // SDP offers get close to this
)

// Client is one websocket connection attached to the hub.
type Client struct {
	id   string
	room string
	conn *websocket.Conn
	send chan []byte
	hub  *hub.Hub
}

// HandleInitConnection upgrades the request, assigns the connection identity
// and starts the connection's pumps. Every connection lands in the default
// class room.
func HandleInitConnection(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := misc.WsConnectionUpgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "error", err)
			return
		}
		c := &Client{
			id:   uuid.New().String(),
			room: types.DefaultRoom,
			conn: conn,
			send: make(chan []byte, 256),
			hub:  h,
		}
		c.welcome()
		go c.writePump()
		go c.readPump()
	}
}

func (c *Client) ID() string { return c.id }

// Send queues a frame for the write pump. It never blocks: a client too slow
// to drain its buffer is treated as gone.
func (c *Client) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return websocket.ErrCloseSent
	}
}

// welcome tells the client its assigned id before anything else is sent.
func (c *Client) welcome() {
	raw, err := signal.EncodeFrame(signal.EventWelcome, signal.Welcome{PeerID: c.id})
	if err != nil {
		return
	}
	_ = c.Send(raw)
}

// readPump is the only reader on the connection. Its exit is the one place
// disconnect cleanup is triggered from; hub.Leave is idempotent underneath.
func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c.room, c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("read error", "peerId", c.id, "error", err)
			}
			return
		}
		c.dispatch(raw)
	}
}

// dispatch routes one inbound frame to the hub. Bad frames are dropped; one
// client's garbage never takes the hub down or touches another session.
func (c *Client) dispatch(raw []byte) {
	frame, err := signal.DecodeFrame(raw)
	if err != nil {
		slog.Debug("unreadable frame dropped", "peerId", c.id, "error", err)
		return
	}
	switch frame.Event {
	case signal.EventJoin:
		c.hub.Join(c.room, c)
	case signal.EventWebRTCSignal:
		env, err := signal.DecodeEnvelope(frame.Data)
		if err != nil {
			slog.Debug("malformed envelope dropped", "peerId", c.id, "error", err)
			return
		}
		c.hub.Relay(c.room, c.id, env)
	case signal.EventChat:
		var text string
		if err := json.Unmarshal(frame.Data, &text); err != nil {
			slog.Debug("malformed chat dropped", "peerId", c.id, "error", err)
			return
		}
		c.hub.Chat(c.room, c.id, text)
	default:
		slog.Debug("unknown event dropped", "peerId", c.id, "event", frame.Event)
	}
}

// writePump is the only writer on the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
