package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Topics a websocket can subscribe to.
const (
	TopicMenu  = "menu"
	TopicAdmin = "admin"
)

// UserTopic is the per-guest topic carrying changes to their own orders.
func UserTopic(userID string) string { return "user:" + userID }

// writeWait bounds a single websocket write so a stalled client cannot hold
// up the request that published the change.
const writeWait = 5 * time.Second

// Hub fans change events out to websocket subscribers grouped by topic.
type Hub struct {
	mu        sync.RWMutex
	topics    map[string]map[*wsConn]struct{}
	writeWait time.Duration
	log       zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{topics: make(map[string]map[*wsConn]struct{}), writeWait: writeWait, log: log}
}

// wsConn wraps a websocket connection with a write mutex to serialize writes.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Register adds conn to topic and returns the function that removes and
// closes it again.
func (h *Hub) Register(topic string, conn *websocket.Conn) func() {
	wc := &wsConn{conn: conn}
	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*wsConn]struct{})
		h.topics[topic] = subs
	}
	subs[wc] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.drop(topic, wc) })
	}
}

// Subscribers returns the number of live connections on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Notify sends a typed event payload to every subscriber of topic.
func (h *Hub) Notify(topic string, event string, payload any) {
	h.mu.RLock()
	conns := make([]*wsConn, 0, len(h.topics[topic]))
	for wc := range h.topics[topic] {
		conns = append(conns, wc)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		h.log.Debug().Str("topic", topic).Str("event", event).Msg("ws: no subscribers; drop event")
		return
	}

	msg := Message{Event: event}
	if b, err := json.Marshal(payload); err == nil {
		msg.Data = b
	}
	for _, wc := range conns {
		wc.mu.Lock()
		err := wc.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err == nil {
			err = wc.conn.WriteJSON(msg)
		}
		wc.mu.Unlock()
		if err != nil {
			h.log.Warn().Err(err).Str("topic", topic).Str("event", event).Msg("ws: write failed; dropping subscriber")
			h.drop(topic, wc)
		}
	}
}

// drop removes a subscriber whose connection can no longer be written to.
func (h *Hub) drop(topic string, wc *wsConn) {
	h.mu.Lock()
	delete(h.topics[topic], wc)
	if len(h.topics[topic]) == 0 {
		delete(h.topics, topic)
	}
	h.mu.Unlock()
	wc.conn.Close()
}

// Publish routes a change to the topics interested in it. It satisfies
// Publisher so services can push straight into a single-instance hub.
func (h *Hub) Publish(_ context.Context, c Change) error {
	for _, topic := range Route(c) {
		h.Notify(topic, EventChange, c)
	}
	return nil
}

// Message is the envelope written to websocket clients.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
