package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Message levels, mirrored in API responses.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

const (
	EventShareReceived   = "share_received"
	EventShareAccepted   = "share_accepted"
	EventShareDeclined   = "share_declined"
	EventShareRevoked    = "share_revoked"
	EventSessionFinished = "session_finished"
)

type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Level   string `json:"level"`
	Data    any    `json:"data,omitempty"`
}

type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
}

type userMessage struct {
	userID uuid.UUID
	event  Event
}

// Hub fans events out to every open stream of the target user.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan userMessage
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan userMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run processes hub traffic until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.event)
			if err != nil {
				log.Errorf("notify: marshal %s event: %s", msg.event.Type, err)
				continue
			}
			h.mu.RLock()
			for _, client := range h.clients {
				if client.UserID != msg.userID {
					continue
				}
				select {
				case client.Send <- data:
				default:
					log.Debugf("notify: client %s buffer full, dropping %s", client.ID, msg.event.Type)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify queues an event for userID. It never blocks the caller.
func (h *Hub) Notify(userID uuid.UUID, event Event) {
	select {
	case h.broadcast <- userMessage{userID: userID, event: event}:
	default:
		log.Warnf("notify: broadcast queue full, dropping %s for %s", event.Type, userID)
	}
}

func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.UserID == userID {
			n++
		}
	}
	return n
}
