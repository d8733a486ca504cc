// Package forward exposes a channel as a local TCP endpoint: every
// accepted connection is carried over a fresh stream of the channel.
package forward

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-trunk/trunk/pkg/channel"
	"github.com/go-trunk/trunk/pkg/internal/bufpool"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metrics"
)

const defaultOpenTimeout = 15 * time.Second

type options struct {
	openTimeout time.Duration
	logger      logger.Logger
}

type Option func(opts *options)

// OpenTimeoutOption bounds how long an accepted connection may wait for
// its stream, channel establishment included.
func OpenTimeoutOption(d time.Duration) Option {
	return func(opts *options) {
		opts.openTimeout = d
	}
}

func LoggerOption(logger logger.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// Forwarder accepts local connections and pipes each over its own stream
// on the channel.
type Forwarder struct {
	name    string
	addr    string
	channel channel.Channel
	options options

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

func New(name, addr string, ch channel.Channel, opts ...Option) *Forwarder {
	options := options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.openTimeout <= 0 {
		options.openTimeout = defaultOpenTimeout
	}
	if options.logger == nil {
		options.logger = logger.Default()
	}

	return &Forwarder{
		name:    name,
		addr:    addr,
		channel: ch,
		options: options,
	}
}

func (f *Forwarder) Name() string {
	return f.name
}

// Addr reports the bound listen address, nil before Serve has bound it.
func (f *Forwarder) Addr() net.Addr {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ln == nil {
		return nil
	}
	return f.ln.Addr()
}

func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.ln != nil {
		return f.ln.Close()
	}
	return nil
}

func (f *Forwarder) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Serve binds the listen address and accepts until Close. The channel is
// left untouched on return; its owner closes it.
func (f *Forwarder) Serve() error {
	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		ln.Close()
		return nil
	}
	f.ln = ln
	f.mu.Unlock()

	log := f.options.logger.WithFields(map[string]any{
		"forward": f.name,
		"addr":    ln.Addr().String(),
	})
	log.Infof("forwarding %s to %s", ln.Addr(), f.channel.Target())

	var tempDelay time.Duration
	for {
		conn, e := ln.Accept()
		if e != nil {
			if f.isClosed() {
				return nil
			}
			if ne, ok := e.(net.Error); ok && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 1 * time.Second
				} else {
					tempDelay *= 2
				}
				if max := 5 * time.Second; tempDelay > max {
					tempDelay = max
				}
				log.Warnf("accept: %v, retrying in %v", e, tempDelay)
				time.Sleep(tempDelay)
				continue
			}
			log.Errorf("accept: %v", e)
			return e
		}
		tempDelay = 0

		go f.handle(conn, log)
	}
}

func (f *Forwarder) handle(conn net.Conn, log logger.Logger) {
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), f.options.openTimeout)
	defer cancel()

	stream, err := f.channel.OpenStream(ctx)
	if err != nil {
		log.Errorf("open stream: %v", err)
		return
	}
	defer stream.Close()

	log.Debugf("%s <-> %s", conn.RemoteAddr(), f.channel.Target())
	pipe(metrics.WrapConn(f.name, conn), stream)
	log.Debugf("%s >-< %s", conn.RemoteAddr(), f.channel.Target())
}

// pipe copies both directions until one side finishes. Closing the peer
// unblocks the opposite copy.
func pipe(a, b net.Conn) {
	var g errgroup.Group
	g.Go(func() error {
		defer b.Close()
		return copyBuffer(b, a)
	})
	g.Go(func() error {
		defer a.Close()
		return copyBuffer(a, b)
	})
	g.Wait()
}

func copyBuffer(dst io.Writer, src io.Reader) error {
	buf := bufpool.Get(32 * 1024)
	defer bufpool.Put(buf)

	_, err := io.CopyBuffer(dst, src, buf)
	return err
}
