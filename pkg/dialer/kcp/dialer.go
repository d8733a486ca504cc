package kcp

import (
	"context"
	"net"

	"github.com/go-trunk/trunk/pkg/dialer"
	"github.com/go-trunk/trunk/pkg/logger"
	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/registry"
	"github.com/xtaci/kcp-go/v5"
)

func init() {
	registry.DialerRegistry().Register("kcp", NewDialer)
}

type kcpDialer struct {
	md     metadata
	logger logger.Logger
}

func NewDialer(opts ...dialer.Option) dialer.Dialer {
	options := &dialer.Options{}
	for _, opt := range opts {
		opt(options)
	}

	log := options.Logger
	if log == nil {
		log = logger.Default()
	}

	return &kcpDialer{
		logger: log,
	}
}

func (d *kcpDialer) Init(md md.Metadata) (err error) {
	return d.parseMetadata(md)
}

func (d *kcpDialer) Dial(ctx context.Context, addr string, opts ...dialer.DialOption) (net.Conn, error) {
	var options dialer.DialOptions
	for _, opt := range opts {
		opt(&options)
	}

	conn, err := kcp.DialWithOptions(addr, nil, d.md.dataShards, d.md.parityShards)
	if err != nil {
		d.logger.Error(err)
		return nil, err
	}

	conn.SetNoDelay(d.md.noDelay, d.md.interval, d.md.resend, d.md.noCongestion)
	conn.SetWindowSize(d.md.sndWnd, d.md.rcvWnd)
	conn.SetMtu(d.md.mtu)
	conn.SetACKNoDelay(d.md.ackNoDelay)
	if d.md.readBuffer > 0 {
		conn.SetReadBuffer(d.md.readBuffer)
	}
	if d.md.writeBuffer > 0 {
		conn.SetWriteBuffer(d.md.writeBuffer)
	}

	return conn, nil
}
