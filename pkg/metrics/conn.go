package metrics

import "net"

type conn struct {
	net.Conn
	forwarder string
}

// WrapConn counts bytes moved through c against the named forwarder.
func WrapConn(forwarder string, c net.Conn) net.Conn {
	return &conn{
		forwarder: forwarder,
		Conn:      c,
	}
}

func (c *conn) Read(b []byte) (n int, err error) {
	n, err = c.Conn.Read(b)
	InputBytes(c.forwarder).Add(float64(n))
	return
}

func (c *conn) Write(b []byte) (n int, err error) {
	n, err = c.Conn.Write(b)
	OutputBytes(c.forwarder).Add(float64(n))
	return
}
