package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Full scene snapshots ride on the same socket, so the limit is
	// generous compared to a chat protocol.
	maxMessageSize = 4 << 20

	sendBufferSize = 256
)

// Conn wraps one client socket. The read pump feeds frames into the owning
// room's event loop; the write pump drains the send queue so a slow peer
// never blocks that loop.
type Conn struct {
	room *Room
	sock *websocket.Conn
	send chan []byte
}

// enqueue hands data to the write pump without blocking. It reports false
// when the peer's queue is full, which the room treats as a dead socket.
func (c *Conn) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Conn) readPump() {
	defer func() {
		// Close and error land here the same way; eviction is identical.
		c.room.unregister <- c
		c.sock.Close()
	}()

	c.sock.SetReadLimit(maxMessageSize)
	c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		c.sock.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[Relay] Read error in room %s: %v", c.room.id, err)
			}
			return
		}
		c.room.frames <- frame{conn: c, data: data}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.sock.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The room dropped this connection.
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[Relay] Write error in room %s: %v", c.room.id, err)
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
