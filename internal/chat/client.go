package chat

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"brokercontrol/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection joined to a ticket room.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	db       *gorm.DB
	ticketID uint
	userID   uint
	role     string
	send     chan []byte
}

// Serve upgrades the connection and joins it to the ticket room. Blocks until
// the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, db *gorm.DB, ticketID, userID uint, role string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		hub:      h,
		conn:     conn,
		db:       db,
		ticketID: ticketID,
		userID:   userID,
		role:     role,
		send:     make(chan []byte, 64),
	}
	h.join(ticketID, c)

	go c.writeLoop()
	c.readLoop()
	return nil
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.leave(c.ticketID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(8 << 10)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event Event
		if err := c.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("Chat read error on ticket %d: %v", c.ticketID, err)
			}
			return
		}

		event.TicketID = c.ticketID
		event.SenderID = c.userID
		event.SenderRole = c.role

		switch event.Type {
		case "typing":
			c.hub.Broadcast(c.ticketID, event)
		case "message":
			c.handleMessage(event)
		}
	}
}

// handleMessage persists the message and broadcasts it. The unique
// (ticket_id, client_msg_id) index makes resends after a reconnect no-ops.
// Frames without a client id get a server-generated one so they never collide
// on the index; such messages just lose resend deduplication.
func (c *Client) handleMessage(event Event) {
	body := strings.TrimSpace(event.Body)
	if body == "" {
		return
	}
	if strings.TrimSpace(event.ClientMsgID) == "" {
		event.ClientMsgID = uuid.NewString()
	}

	msg := models.SupportMessage{
		TicketID:    c.ticketID,
		ClientMsgID: event.ClientMsgID,
		SenderID:    c.userID,
		SenderRole:  c.role,
		Body:        body,
	}
	if err := c.db.Create(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return
		}
		log.Errorf("Failed to persist chat message on ticket %d: %v", c.ticketID, err)
		return
	}

	event.Body = body
	event.MessageID = msg.ID
	c.hub.Broadcast(c.ticketID, event)
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
