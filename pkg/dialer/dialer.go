package dialer

import (
	"context"
	"net"

	"github.com/go-trunk/trunk/pkg/metadata"
)

// Dialer is responsible for establishing the raw connection to an address.
type Dialer interface {
	Init(metadata.Metadata) error
	Dial(ctx context.Context, addr string, opts ...DialOption) (net.Conn, error)
}
