package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// NotificationHub tracks connected dashboard clients (clientId -> conn)
// and fans push messages out to all of them
type NotificationHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

// NewNotificationHub returns an empty hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*websocket.Conn),
	}
}

// ServeWS upgrades the request and keeps the connection registered until
// the client goes away
func (h *NotificationHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	clientID := uuid.New().String()

	// Register client
	h.mutex.Lock()
	h.clients[clientID] = conn
	h.mutex.Unlock()
	zap.S().Infow("notification client connected", "client_id", clientID)

	// Handle disconnect
	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		delete(h.clients, clientID)
		h.mutex.Unlock()
		zap.S().Infow("notification client disconnected", "client_id", clientID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			h.mutex.Lock()
			delete(h.clients, clientID)
			h.mutex.Unlock()
			conn.Close()
			break
		}
	}
}

// Broadcast sends a push message to every connected client. Dead
// connections are dropped as they fail.
func (h *NotificationHub) Broadcast(msg models.PushMessage) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for clientID, conn := range h.clients {
		err := conn.WriteJSON(map[string]interface{}{
			"event": "new_notification",
			"data":  msg,
		})
		if err != nil {
			zap.S().Warnw("failed to send notification", "client_id", clientID, "error", err)
			delete(h.clients, clientID)
			conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// ClientCount returns the number of connected clients
func (h *NotificationHub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// BroadcastHandler lets an operator push a message to every connected
// dashboard session
func (h *NotificationHub) BroadcastHandler(w http.ResponseWriter, r *http.Request) {
	var msg models.PushMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		config.ErrorStatus("invalid request body", http.StatusBadRequest, w, err)
		return
	}
	if msg.Title == "" {
		config.ErrorStatus("title is required", http.StatusBadRequest, w, errors.New("empty title"))
		return
	}

	sent := h.Broadcast(msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"delivered": sent,
	})
}
