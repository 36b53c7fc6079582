package session

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// The pump constants and most of readPump/writePump follow the gorilla
// websocket chat example.
const (
	// Time allowed to write a message to a client
	sendToClientWait = 10 * time.Second

	// Time allowed to read a pong message from a client after sending a ping, so
	// a dead connection is noticed even when nobody is clicking anything
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingInterval = 50 * time.Second

	// Requests are tiny; the largest is a target with a long player name
	maxMessageSize = 512
)

// A client is a WebSocket connection plus the member's identity and the
// session it belongs to.
type client struct {
	*websocket.Conn

	id      uuid.UUID
	name    string      // only touched by the session goroutine
	session *session    // The session this connection belongs to
	send    chan []byte // Buffered channel of outgoing messages
}

// Send attempts to send a message to the client, kicking the client from the
// session if its send channel is full. THIS IS ONLY SAFE TO CALL FROM THE
// SESSION'S PROCESSING GOROUTINE!
func (c *client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		// The buffer is sizeable, so a full one means the client cannot keep
		// up and the session is better off without it
		c.session.removeMember(c)
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.session.unregister <- c:
		case <-c.session.done:
		}
		c.Close()
	}()

	c.SetReadLimit(maxMessageSize)
	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(timestamp string) error {
		now := time.Now()
		if len(timestamp) == 8 {
			then := int64(binary.BigEndian.Uint64([]byte(timestamp)))
			c.session.logger.Debug("Pong", zap.Stringer("client", c.id), zap.Int64("latency_ms", now.UnixMilli()-then))
		}
		c.SetReadDeadline(now.Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.session.logger.Debug("Connection dropped", zap.Stringer("client", c.id), zap.Error(err))
			}
			return
		}

		select {
		case c.session.requests <- request{c, msg}:
		case <-c.session.done:
			return
		}
	}
}

func (c *client) writePump() {
	pingTicker := time.NewTicker(pingInterval)

	defer func() {
		pingTicker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, chanStillOpen := <-c.send:
			c.SetWriteDeadline(time.Now().Add(sendToClientWait))

			// The session kills this connection by closing our send channel.
			// Closing the socket alone would look like an abnormal closure to
			// the client, so send a proper close message first.
			if !chanStillOpen {
				c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}
		case <-pingTicker.C:
			now := time.Now()

			var timestampBuff [8]byte
			binary.BigEndian.PutUint64(timestampBuff[:], uint64(now.UnixMilli()))

			if err := c.WriteControl(websocket.PingMessage, timestampBuff[:], now.Add(sendToClientWait)); err != nil {
				return
			}
		}
	}
}
