package ws

import (
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// websocketConn presents a message-framed websocket connection as a
// net.Conn byte stream. Reads may span message boundaries; the tail of a
// partially consumed message is kept in buf.
type websocketConn struct {
	*websocket.Conn
	buf []byte
}

func Conn(conn *websocket.Conn) net.Conn {
	return &websocketConn{
		Conn: conn,
	}
}

func (c *websocketConn) Read(b []byte) (n int, err error) {
	if len(c.buf) == 0 {
		_, c.buf, err = c.ReadMessage()
	}
	n = copy(b, c.buf)
	c.buf = c.buf[n:]
	return
}

func (c *websocketConn) Write(b []byte) (n int, err error) {
	err = c.WriteMessage(websocket.BinaryMessage, b)
	n = len(b)
	return
}

func (c *websocketConn) SetDeadline(t time.Time) error {
	if err := c.SetReadDeadline(t); err != nil {
		return err
	}
	return c.SetWriteDeadline(t)
}
