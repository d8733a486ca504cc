// Package yamux provides an alternative stream transport built on
// hashicorp yamux sessions.
package yamux

import (
	"net"

	"github.com/hashicorp/yamux"

	conn_util "github.com/go-trunk/trunk/pkg/internal/util/conn"
	"github.com/go-trunk/trunk/pkg/logger"
	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/registry"
	"github.com/go-trunk/trunk/pkg/transport"
)

func init() {
	registry.TransportRegistry().Register("yamux", NewFactory)
}

type yamuxFactory struct {
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
	return &yamuxFactory{
		logger: log,
	}
}

func (f *yamuxFactory) NewTransport(conn net.Conn, mdata md.Metadata, leftover []byte) (transport.Transport, error) {
	conn = conn_util.WithLeftover(conn, leftover)

	session, err := yamux.Client(conn, parseConfig(mdata))
	if err != nil {
		return nil, err
	}
	return &yamuxTransport{
		conn:    conn,
		session: session,
	}, nil
}

type yamuxTransport struct {
	conn    net.Conn
	session *yamux.Session
}

func (t *yamuxTransport) OpenStream() (net.Conn, error) {
	stream, err := t.session.OpenStream()
	if err != nil {
		return nil, err
	}
	return &streamConn{Conn: t.conn, stream: stream}, nil
}

func (t *yamuxTransport) NumStreams() int {
	return t.session.NumStreams()
}

func (t *yamuxTransport) IsClosed() bool {
	if t.session == nil {
		return true
	}
	return t.session.IsClosed()
}

func (t *yamuxTransport) Close() error {
	if t.session == nil {
		return nil
	}
	return t.session.Close()
}

type streamConn struct {
	net.Conn
	stream *yamux.Stream
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
