package hub

import (
	"github.com/gorilla/websocket"
)

// conn is the subset of *websocket.Conn the hub writes to. Tests substitute
// in-memory implementations.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client pairs a connection with its outbound queue. The hub goroutine
// enqueues; writePump drains. Network writes never happen on the hub
// goroutine, so a slow recipient cannot stall message processing.
type client struct {
	id   string
	conn conn
	hub  *Hub
	send chan []byte
	// closed is touched only by the hub goroutine; it keeps a broadcast
	// from writing to a channel that a nested disconnect already closed.
	closed bool
}

func newClient(id string, c conn, h *Hub) *client {
	cl := &client{
		id:   id,
		conn: c,
		hub:  h,
		send: make(chan []byte, h.sendBuf),
	}
	go cl.writePump()
	return cl
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			// The read pump will fail as well and drive the formal
			// disconnect; nothing more to do here.
			return
		}
	}
}
