// Package transport defines the multiplexed session layer built over a
// fully negotiated connection.
package transport

import (
	"net"

	"github.com/go-trunk/trunk/pkg/metadata"
)

// Transport is a stream-multiplexed session over one connection.
type Transport interface {
	// OpenStream opens a fresh byte stream on the session.
	OpenStream() (net.Conn, error)
	// NumStreams reports the number of open streams.
	NumStreams() int
	// IsClosed reports whether the session is dead.
	IsClosed() bool
	Close() error
}

// Factory builds a Transport over a negotiated connection. leftover holds
// bytes the handshake pipeline read past its own traffic; the session
// consumes them before anything read from conn.
type Factory interface {
	NewTransport(conn net.Conn, md metadata.Metadata, leftover []byte) (Transport, error)
}
