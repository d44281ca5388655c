package ws

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// MessageHandler receives decoded frames and transport-level disconnects.
// Both callbacks run on the client's read goroutine.
type MessageHandler interface {
	HandleMessage(c *Client, env *Envelope)
	HandleDisconnect(c *Client)
}

type Client struct {
	conn *connWrapper
	send chan *Message

	ID string

	// Room is the code of the room this connection has joined, empty until
	// then. Only the read goroutine touches it.
	Room string
}

func NewClient(conn *websocket.Conn, id string) *Client {
	return &Client{
		conn: newConnWrapper(conn),
		send: make(chan *Message, 64), // buffered to avoid dead-locks on slow clients
		ID:   id,
	}
}

func (c *Client) ReadPump(h MessageHandler) {
	defer func() {
		// The hub closes c.send once the client is unregistered, which stops
		// the write pump.
		h.HandleDisconnect(c)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.Send(NewError("malformed message"))
			continue
		}

		h.HandleMessage(c, &env)
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (client %s): %v", c.ID, err)
			break
		}
	}
}

// Send queues a message for the write pump, dropping it when the client
// cannot keep up.
func (c *Client) Send(msg *Message) {
	select {
	case c.send <- msg:
	default:
		log.Printf("client %s buffer full, dropping message", c.ID)
	}
}
