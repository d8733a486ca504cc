package handshaker

import (
	"context"
	"net"

	"github.com/go-trunk/trunk/pkg/metadata"
)

// Handshaker performs one negotiation step on an established connection,
// such as tunneling through a forward proxy or upgrading the wire
// protocol. On success it returns the endpoint to continue with, which may
// wrap conn. On error, ownership of conn stays with the caller.
type Handshaker interface {
	Init(md metadata.Metadata) error
	Handshake(ctx context.Context, conn net.Conn, md metadata.Metadata, opts ...HandshakeOption) (*Result, error)
}

// Result is the outcome of a handshake step.
type Result struct {
	// Conn is the endpoint after the step. It may be the input connection
	// or a wrapper around it.
	Conn net.Conn
	// Metadata is the possibly updated option bag. nil means unchanged.
	Metadata metadata.Metadata
	// Leftover holds bytes read past the step's protocol boundary. They
	// belong to whatever speaks next on the connection.
	Leftover []byte
}

// Acceptor describes the accepting side when a handshake runs on an
// inbound connection. Outbound attempts carry no acceptor.
type Acceptor struct {
	Listener net.Listener
}
