package conn

import (
	"bytes"
	"io"
	"net"
)

type leftoverConn struct {
	net.Conn
	r io.Reader
}

// WithLeftover returns a conn whose reads drain leftover before touching c.
// Writes, deadlines and Close go straight to c.
func WithLeftover(c net.Conn, leftover []byte) net.Conn {
	if len(leftover) == 0 {
		return c
	}
	return &leftoverConn{
		Conn: c,
		r:    io.MultiReader(bytes.NewReader(leftover), c),
	}
}

func (c *leftoverConn) Read(b []byte) (n int, err error) {
	return c.r.Read(b)
}
