package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans interview events out to every connection of a login. A login
// may have several tabs open; all of them see the same snapshots.
type Hub struct {
	// owner -> connections
	conns map[string]map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	Owner string
	Send  chan []byte
	Hub   *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	Owner   string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		disconnect: make(chan string),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for owner, conns := range h.conns {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.conns, owner)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.Owner] == nil {
				h.conns[conn.Owner] = make(map[*Connection]struct{})
			}
			h.conns[conn.Owner][conn] = struct{}{}
			h.mu.Unlock()
			slog.Debug("Interview client connected", "owner", conn.Owner)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.Owner]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.conns, conn.Owner)
					}
					slog.Debug("Interview client disconnected", "owner", conn.Owner)
				}
			}
			h.mu.Unlock()

		case owner := <-h.disconnect:
			h.mu.Lock()
			for conn := range h.conns[owner] {
				close(conn.Send)
			}
			delete(h.conns, owner)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				slog.Error("Failed to encode ws message", "type", msg.Message.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.Owner] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Connections returns how many clients owner has connected
func (h *Hub) Connections(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[owner])
}

// BroadcastToOwner sends a message to every connection of owner
// (implements service.Broadcaster)
func (h *Hub) BroadcastToOwner(owner string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode ws payload", "type", msgType, "error", err)
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		Owner: owner,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}:
	case <-h.done:
	}
}

// DisconnectOwner closes every connection of owner (implements service.Broadcaster)
func (h *Hub) DisconnectOwner(owner string) {
	select {
	case h.disconnect <- owner:
	case <-h.done:
	}
}

// Close stops the hub and closes all connections
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
