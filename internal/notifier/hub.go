package notifier

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to websocket subscribers grouped by channel.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		log:     log.With(zap.String("component", "notifier")),
	}
}

func validChannel(channel string) bool {
	switch channel {
	case ChannelBookings, ChannelMatches, ChannelUsers, ChannelChat:
		return true
	}
	return false
}

// HandleWS upgrades the request and subscribes the connection to the channel
// named in the URL. The connection is dropped when the client goes away or
// its send buffer stays full.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	if !validChannel(channel) {
		http.Error(w, "unknown channel", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Failed to upgrade websocket connection", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.subscribe(channel, c)

	go h.writeLoop(channel, c)
	go h.readLoop(channel, c)
}

func (h *Hub) subscribe(channel string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[*client]struct{})
	}
	h.clients[channel][c] = struct{}{}
}

func (h *Hub) unsubscribe(channel string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.clients[channel]; ok {
		if _, ok := subs[c]; ok {
			delete(subs, c)
			close(c.send)
		}
	}
}

func (h *Hub) readLoop(channel string, c *client) {
	defer func() {
		h.unsubscribe(channel, c)
		c.conn.Close()
	}()

	// Subscribers are read-only; we only consume messages to detect close.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(channel string, c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Notify marshals the event and broadcasts it to every subscriber of the
// channel. Subscribers with a full send buffer are skipped rather than
// blocking the caller.
func (h *Hub) Notify(channel, event string, payload any) {
	msg, err := json.Marshal(map[string]any{
		"type": event,
		"data": payload,
	})
	if err != nil {
		h.log.Error("Failed to marshal notification",
			zap.Error(err),
			zap.String("event", event),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[channel] {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("Dropping notification for slow subscriber",
				zap.String("channel", channel),
				zap.String("event", event),
			)
		}
	}
}
