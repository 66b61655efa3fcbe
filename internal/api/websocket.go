package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"nhooyr.io/websocket"

	"github.com/vaultindex/vaultindex/internal/auth"
)

// WSHub fans out index scan_status transitions to every connected client —
// spec.md §1's Non-goal of "no user-facing progress UI beyond status flags"
// bounds this to queued/scanning/done/failed events, nothing richer.
type WSHub struct {
	mu      sync.RWMutex
	clients map[*wsClient]bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// StatusEvent is the only payload shape broadcast over /ws/indexes.
type StatusEvent struct {
	IndexID    string `json:"index_id"`
	ScanStatus string `json:"scan_status"`
}

func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[*wsClient]bool)}
}

func (h *WSHub) Broadcast(ev StatusEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *WSHub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *WSHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if _, err := auth.ValidateJWT(s.config.JWTSecret, token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("api: websocket accept error: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 16)}
	s.wsHub.add(client)
	log.Println("api: websocket client connected")

	ctx := r.Context()
	go func() {
		defer conn.Close(websocket.StatusNormalClosure, "")
		for msg := range client.send {
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	s.wsHub.remove(client)
	log.Println("api: websocket client disconnected")
}
