package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type orderEvent struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

// Hub fans order status changes out to connected admin dashboards.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// BroadcastOrderStatus pushes the order's new state to every connected
// client. Dead connections are dropped on write failure.
func (h *Hub) BroadcastOrderStatus(order models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(orderEvent{Type: "order_status", Order: order}); err != nil {
			zap.S().Debugw("dropping websocket client", "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// OrderEventsHandler upgrades the connection and registers it with the hub.
func (h *Hub) OrderEventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("failed to upgrade websocket", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// drain reads so close frames are processed; unregister on disconnect
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
