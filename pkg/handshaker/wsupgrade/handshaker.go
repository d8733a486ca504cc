// Package wsupgrade upgrades an established connection to the WebSocket
// protocol. The resulting endpoint carries the byte stream over binary
// messages.
package wsupgrade

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-trunk/trunk/pkg/handshaker"
	ws_util "github.com/go-trunk/trunk/pkg/internal/util/ws"
	"github.com/go-trunk/trunk/pkg/logger"
	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/registry"
)

func init() {
	registry.HandshakerRegistry().Register("ws", NewHandshaker)
}

type wsHandshaker struct {
	md     metadata
	logger logger.Logger
}

func NewHandshaker(opts ...handshaker.Option) handshaker.Handshaker {
	options := &handshaker.Options{}
	for _, opt := range opts {
		opt(options)
	}

	log := options.Logger
	if log == nil {
		log = logger.Default()
	}
	return &wsHandshaker{
		logger: log,
	}
}

func (h *wsHandshaker) Init(mdata md.Metadata) (err error) {
	return h.parseMetadata(mdata)
}

func (h *wsHandshaker) Handshake(ctx context.Context, conn net.Conn, mdata md.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
	options := &handshaker.HandshakeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	host := h.md.host
	if host == "" {
		host = options.Addr
	}

	if h.md.handshakeTimeout > 0 {
		conn.SetDeadline(time.Now().Add(h.md.handshakeTimeout))
		defer conn.SetDeadline(time.Time{})
	}

	d := websocket.Dialer{
		HandshakeTimeout:  h.md.handshakeTimeout,
		ReadBufferSize:    h.md.readBufferSize,
		WriteBufferSize:   h.md.writeBufferSize,
		EnableCompression: h.md.enableCompression,
		NetDialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return conn, nil
		},
	}

	u := url.URL{Scheme: "ws", Host: host, Path: h.md.path}
	c, resp, err := d.DialContext(ctx, u.String(), h.md.header)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	h.logger.Debugf("upgraded %s%s to websocket", host, h.md.path)

	return &handshaker.Result{
		Conn: ws_util.Conn(c),
	}, nil
}
