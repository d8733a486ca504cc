package quic

import (
	"context"
	"crypto/tls"
	"net"
	"sync"

	"github.com/go-trunk/trunk/pkg/dialer"
	"github.com/go-trunk/trunk/pkg/logger"
	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/registry"
	"github.com/quic-go/quic-go"
)

func init() {
	registry.DialerRegistry().Register("quic", NewDialer)
}

type quicDialer struct {
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

	return &quicDialer{
		logger: log,
	}
}

func (d *quicDialer) Init(md md.Metadata) (err error) {
	return d.parseMetadata(md)
}

// Dial opens a QUIC connection to addr and a single bidirectional stream
// on it. The stream is the byte-stream endpoint; closing it closes the
// connection.
func (d *quicDialer) Dial(ctx context.Context, addr string, opts ...dialer.DialOption) (net.Conn, error) {
	var options dialer.DialOptions
	for _, opt := range opts {
		opt(&options)
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	serverName := d.md.serverName
	if serverName == "" {
		serverName = host
	}

	tlsConf := &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: !d.md.secure,
		NextProtos:         []string{alpnProto},
	}
	quicConf := &quic.Config{
		MaxIdleTimeout:       d.md.maxIdleTimeout,
		KeepAlivePeriod:      d.md.keepAlivePeriod,
		HandshakeIdleTimeout: d.md.handshakeTimeout,
	}

	conn, err := quic.DialAddr(ctx, addr, tlsConf, quicConf)
	if err != nil {
		d.logger.Error(err)
		return nil, err
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(0, "open stream failed")
		d.logger.Error(err)
		return nil, err
	}

	return &streamConn{
		Stream: stream,
		conn:   conn,
	}, nil
}

type streamConn struct {
	quic.Stream
	conn      quic.Connection
	closeOnce sync.Once
	closeErr  error
}

func (c *streamConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *streamConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *streamConn) Close() error {
	c.closeOnce.Do(func() {
		c.Stream.Close()
		c.closeErr = c.conn.CloseWithError(0, "")
	})
	return c.closeErr
}
