// Package socket streams document change events to connected clients over
// WebSockets. The feed is one-way: the server broadcasts, clients listen.
package socket

import (
	"encoding/json"

	"github.com/andela-ekupara/dcman/pkg/logger"
)

type EventType string

const (
	DocCreated EventType = "DOCUMENT_CREATED"
	DocUpdated EventType = "DOCUMENT_UPDATED"
	DocDeleted EventType = "DOCUMENT_DELETED"
)

// Event is a single document change notification. Payload carries the
// serialized document.
type Event struct {
	Type    EventType       `json:"type"`
	DocID   string          `json:"document_id"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Hub struct {
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
	clients    map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan Event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the hub's event loop. It owns the client set; all membership
// changes and broadcasts pass through its channels.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			logger.Sugar.Infof("Client %s connected to change feed", client.UserID)

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				logger.Sugar.Infof("Client %s disconnected from change feed", client.UserID)
			}

		case event := <-h.Broadcast:
			raw, err := json.Marshal(event)
			if err != nil {
				logger.Sugar.Errorf("Failed to marshal event: %v", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.Send <- raw:
				default:
					// Slow consumer, drop it rather than block the feed.
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}
