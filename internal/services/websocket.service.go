package services

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Message types exchanged over the scan WebSocket
const (
	MessageScan   = "scan"
	MessageResult = "result"
	MessageError  = "error"
	MessagePing   = "ping"
	MessagePong   = "pong"
	MessageClose  = "close"
)

// Error codes carried by MessageError replies
const (
	CodePathNotFound  = "path_not_found"
	CodeNotADirectory = "not_a_directory"
	CodeBadRequest    = "bad_request"
	CodeInternalError = "internal_error"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Path      string      `json:"path,omitempty"`
	Code      string      `json:"code,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan struct{}

	closeOnce sync.Once
}

// NewClientConnection wraps conn with a buffered send queue
func NewClientConnection(id string, conn *websocket.Conn) *ClientConnection {
	return &ClientConnection{
		ID:    id,
		Conn:  conn,
		Send:  make(chan WebSocketMessage, 16),
		Close: make(chan struct{}),
	}
}

// Shutdown signals the client's pumps to stop. Safe to call more than once.
func (c *ClientConnection) Shutdown() {
	c.closeOnce.Do(func() {
		close(c.Close)
	})
}

// Deliver queues msg for the write pump. It returns false once the client
// has been shut down.
func (c *ClientConnection) Deliver(msg WebSocketMessage) bool {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	select {
	case c.Send <- msg:
		return true
	case <-c.Close:
		return false
	}
}

// WebSocketHub keeps track of connected scan clients
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
}

var (
	wsHub     *WebSocketHub
	clientSeq atomic.Uint64
)

// NewWebSocketHub creates a hub and starts its event loop
func NewWebSocketHub() *WebSocketHub {
	h := &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

// InitWebSocketHub initializes the package-level hub
func InitWebSocketHub() *WebSocketHub {
	wsHub = NewWebSocketHub()
	return wsHub
}

// GetWebSocketHub returns the package-level hub
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}

// NextClientID returns a connection id unique within this process
func NextClientID(remote string) string {
	return fmt.Sprintf("%s-%d", remote, clientSeq.Add(1))
}

// run manages the hub's event loop
func (h *WebSocketHub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				client.Shutdown()
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s (total: %d)", client.ID, total)

		case clientID := <-h.unregister:
			h.mu.Lock()
			client, exists := h.clients[clientID]
			if exists {
				delete(h.clients, clientID)
				client.Shutdown()
			}
			total := len(h.clients)
			h.mu.Unlock()
			if exists {
				log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, total)
			}
		}
	}
}

// Register adds a new client to the hub. A client registered after Stop is
// shut down immediately.
func (h *WebSocketHub) Register(client *ClientConnection) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Shutdown()
	}
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop disconnects every client and ends the event loop
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// ScanMessage runs a scan for path and turns the outcome into the reply
// sent back to the client
func ScanMessage(path string) WebSocketMessage {
	if path == "" {
		return WebSocketMessage{
			Type:  MessageError,
			Code:  CodeBadRequest,
			Error: "path is required",
		}
	}

	report, err := GetScanReport(path)
	if err != nil {
		return WebSocketMessage{
			Type:  MessageError,
			Path:  path,
			Code:  ErrorCode(err),
			Error: err.Error(),
		}
	}

	return WebSocketMessage{
		Type: MessageResult,
		Path: report.Path,
		Data: report,
	}
}

// ErrorCode classifies a scan error for WebSocket clients
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrPathNotFound):
		return CodePathNotFound
	case errors.Is(err, ErrNotADirectory):
		return CodeNotADirectory
	default:
		return CodeInternalError
	}
}
