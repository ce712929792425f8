package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/soundbridge/directorcore/internal/auth"
	"github.com/soundbridge/directorcore/internal/director"
	"go.uber.org/zap"
)

// Hub maintains active WebSocket clients and broadcasts amplifier events.
// It implements director.StatusListener so the poller can feed it directly.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex

	logger *zap.Logger

	authService *auth.Service
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger, authService *auth.Service) *Hub {
	return &Hub{
		broadcast:   make(chan Message, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		logger:      logger,
		authService: authService,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("WebSocket client registered",
				zap.String("remote_addr", client.conn.RemoteAddr().String()),
				zap.Int("total_clients", len(h.clients)))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("WebSocket client unregistered",
					zap.String("remote_addr", client.conn.RemoteAddr().String()),
					zap.Int("total_clients", len(h.clients)))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal broadcast message",
					zap.Error(err))
				h.mu.RUnlock()
				continue
			}

			for client := range h.clients {
				select {
				case client.send <- data:
					// Message sent successfully
				default:
					// Client send channel full - unregister slow/dead client
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Client send buffer full, unregistering",
						zap.String("remote_addr", client.conn.RemoteAddr().String()))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
		// Message queued for broadcast
	default:
		h.logger.Warn("Hub broadcast channel full, message dropped",
			zap.String("message_type", string(msg.Type)))
	}
}

// OnSystemStatus implements director.StatusListener.
func (h *Hub) OnSystemStatus(status *director.SystemStatus) {
	h.Broadcast(newStatusMessage(status))
}

// BroadcastOutputChanged notifies clients of an API-issued output change.
func (h *Hub) BroadcastOutputChanged(output, field string, value any) {
	h.Broadcast(Message{
		Type:      MessageTypeOutputChanged,
		Timestamp: time.Now(),
		Data:      OutputChangedData{Output: output, Field: field, Value: value},
	})
}

// BroadcastAmplifierError notifies clients of a failed amplifier call.
func (h *Hub) BroadcastAmplifierError(command string, err error) {
	h.Broadcast(Message{
		Type:      MessageTypeAmplifierError,
		Timestamp: time.Now(),
		Data:      AmplifierErrorData{Command: command, Error: err.Error()},
	})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
