package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = wsPongWait * 9 / 10
	wsMaxReadBytes = 4096
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type analyticsPayload struct {
	Event     string           `json:"event"`
	Turn      int              `json:"turn"`
	Result    *searchResultDTO `json:"result,omitempty"`
	CacheLen  int              `json:"cache_entries"`
	UpdatedAt int64            `json:"updated_at_ms"`
}

type AnalyticsClient struct {
	hub  *AnalyticsHub
	conn *websocket.Conn
	send chan []byte
}

// AnalyticsHub fans finished searches out to websocket clients. Publish
// never blocks the solver; payloads are dropped when the queue is full.
type AnalyticsHub struct {
	mu        sync.Mutex
	clients   map[*AnalyticsClient]struct{}
	broadcast chan analyticsPayload
}

func NewAnalyticsHub() *AnalyticsHub {
	return &AnalyticsHub{
		clients:   make(map[*AnalyticsClient]struct{}),
		broadcast: make(chan analyticsPayload, 64),
	}
}

func (h *AnalyticsHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			if len(h.clients) == 0 {
				h.mu.Unlock()
				continue
			}
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "analytics", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *AnalyticsHub) Publish(payload analyticsPayload) {
	select {
	case h.broadcast <- payload:
	default:
		log.Debug().Str("component", "server").Str("event", payload.Event).Msg("analytics queue full, dropping")
	}
}

func (h *AnalyticsHub) Register(c *AnalyticsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *AnalyticsHub) Unregister(c *AnalyticsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *AnalyticsHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *AnalyticsClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveAnalyticsWS(hub *AnalyticsHub, session *Session, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Str("component", "server").Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &AnalyticsClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	turn, last := session.LastResult()
	initial := analyticsPayload{
		Event:     "snapshot",
		Turn:      turn,
		Result:    last,
		CacheLen:  session.CacheLen(),
		UpdatedAt: time.Now().UnixMilli(),
	}
	client.sendJSON(wsMessage{Type: "analytics", Payload: mustMarshal(initial)})

	go client.writePump()

	conn.SetReadLimit(wsMaxReadBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

// writePump owns every write on the connection. It pings when idle so the
// read side can notice a dead peer through its deadline.
func (c *AnalyticsClient) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
