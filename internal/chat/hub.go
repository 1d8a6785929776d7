package chat

import (
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Event is the wire format for support-chat websocket frames.
type Event struct {
	Type        string `json:"type"` // message | typing
	TicketID    uint   `json:"ticket_id"`
	SenderID    uint   `json:"sender_id"`
	SenderRole  string `json:"sender_role,omitempty"`
	Body        string `json:"body,omitempty"`
	ClientMsgID string `json:"client_msg_id,omitempty"`
	MessageID   uint   `json:"message_id,omitempty"`
	Typing      bool   `json:"typing,omitempty"`
}

// Hub fans chat events out to every connection joined to a ticket room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]bool)}
}

func (h *Hub) join(ticketID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[ticketID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[ticketID] = room
	}
	room[c] = true
}

func (h *Hub) leave(ticketID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[ticketID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, ticketID)
		}
	}
	close(c.send)
}

// Broadcast delivers an event to every client in the ticket room. Slow
// clients are dropped rather than blocking the room.
func (h *Hub) Broadcast(ticketID uint, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Failed to marshal chat event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[ticketID] {
		select {
		case c.send <- payload:
		default:
			log.Warnf("Dropping slow chat client on ticket %d", ticketID)
		}
	}
}
