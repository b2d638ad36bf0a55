// Package notify broadcasts order lifecycle events to connected dashboards
// over WebSocket. Delivery is at-most-once and best-effort: a slow or full
// subscriber drops events, and nothing is persisted or replayed.
package notify

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mipipizza/order-system/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
	broadcastBuf   = 256
)

// Event names on the wire.
const (
	EventNewOrder     = "newOrder"
	EventOrderUpdated = "orderUpdated"
	EventOrderDeleted = "orderDeleted"
	eventUpdateOrder  = "updateOrder" // legacy inbound, re-broadcast only
)

// Envelope is the JSON frame exchanged with subscribers.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub maintains the set of connected subscribers and fans events out to all
// of them.
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	upgrader   websocket.Upgrader
	logger     zerolog.Logger
	// OnClientCountChange is invoked from the hub loop after every
	// connect/disconnect with the new subscriber count.
	OnClientCountChange func(n int)
}

func NewHub(logger zerolog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, broadcastBuf),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// Run starts the hub event loop. Must be run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info().Int("subscribers", len(h.clients)).Msg("ws client connected")
			h.notifyCount()

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info().Int("subscribers", len(h.clients)).Msg("ws client disconnected")
				h.notifyCount()
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Subscriber cannot keep up; drop it.
					delete(h.clients, c)
					close(c.send)
					h.notifyCount()
				}
			}
		}
	}
}

func (h *Hub) notifyCount() {
	if h.OnClientCountChange != nil {
		h.OnClientCountChange(len(h.clients))
	}
}

// OrderCreated broadcasts a newOrder event with the full order document.
func (h *Hub) OrderCreated(o *domain.Order) { h.emit(EventNewOrder, o) }

// OrderUpdated broadcasts an orderUpdated event with the post-mutation order.
func (h *Hub) OrderUpdated(o *domain.Order) { h.emit(EventOrderUpdated, o) }

// OrderDeleted broadcasts an orderDeleted event with the removed order.
func (h *Hub) OrderDeleted(o *domain.Order) { h.emit(EventOrderDeleted, o) }

func (h *Hub) emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("event", event).Msg("failed to encode ws event")
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Warn().Err(err).Str("event", event).Msg("failed to encode ws frame")
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		// Never block the request path on the broadcast channel.
		h.logger.Warn().Str("event", event).Msg("broadcast buffer full, event dropped")
	}
}

// ServeWS upgrades an HTTP connection and registers the subscriber.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return err
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c
	go c.writePump()
	go c.readPump()
	return nil
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump drains inbound frames. The only recognized inbound event is the
// legacy updateOrder, which is re-broadcast verbatim as orderUpdated without
// touching persistence.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Err(err).Msg("ws unexpected close")
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil || env.Event != eventUpdateOrder {
			continue
		}
		c.hub.logger.Warn().Msg("deprecated updateOrder event received, re-broadcasting")
		c.hub.emit(EventOrderUpdated, env.Data)
	}
}

// writePump delivers queued frames and keepalive pings to one subscriber.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
