// Package smux provides the default stream transport, multiplexing
// streams over one connection with the smux protocol.
package smux

import (
	"net"

	smux "github.com/xtaci/smux"

	conn_util "github.com/go-trunk/trunk/pkg/internal/util/conn"
	"github.com/go-trunk/trunk/pkg/logger"
	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/registry"
	"github.com/go-trunk/trunk/pkg/transport"
)

func init() {
	registry.TransportRegistry().Register("smux", NewFactory)
}

type smuxFactory struct {
	logger logger.Logger
}

func NewFactory(opts ...transport.Option) transport.Factory {
	options := &transport.Options{}
	for _, opt := range opts {
		opt(options)
	}

	log := options.Logger
	if log == nil {
		log = logger.Default()
	}
	return &smuxFactory{
		logger: log,
	}
}

// NewTransport opens a client-side smux session over conn. Configuration
// comes from the mux.* metadata keys; values that would not form a valid
// smux config are discarded as a whole.
func (f *smuxFactory) NewTransport(conn net.Conn, mdata md.Metadata, leftover []byte) (transport.Transport, error) {
	conn = conn_util.WithLeftover(conn, leftover)

	session, err := smux.Client(conn, parseConfig(mdata))
	if err != nil {
		return nil, err
	}
	return &smuxTransport{
		conn:    conn,
		session: session,
	}, nil
}

type smuxTransport struct {
	conn    net.Conn
	session *smux.Session
}

func (t *smuxTransport) OpenStream() (net.Conn, error) {
	stream, err := t.session.OpenStream()
	if err != nil {
		return nil, err
	}
	return &streamConn{Conn: t.conn, stream: stream}, nil
}

func (t *smuxTransport) NumStreams() int {
	return t.session.NumStreams()
}

func (t *smuxTransport) IsClosed() bool {
	if t.session == nil {
		return true
	}
	return t.session.IsClosed()
}

func (t *smuxTransport) Close() error {
	if t.session == nil {
		return nil
	}
	return t.session.Close()
}

type streamConn struct {
	net.Conn
	stream *smux.Stream
}

func (c *streamConn) Read(b []byte) (n int, err error) {
	return c.stream.Read(b)
}

func (c *streamConn) Write(b []byte) (n int, err error) {
	return c.stream.Write(b)
}

func (c *streamConn) Close() error {
	return c.stream.Close()
}
