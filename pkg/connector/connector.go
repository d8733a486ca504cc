// Package connector drives a single asynchronous connection attempt: raw
// dial, optional initial bytes, handshake pipeline, transport
// construction. The outcome is delivered to a completion callback exactly
// once.
package connector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/metrics"
	"github.com/go-trunk/trunk/pkg/transport"
)

// ErrShutdown is reported when the connector was shut down before the
// attempt could run.
var ErrShutdown = errors.New("connector: shut down")

// aLongTimeAgo is a non-zero time in the distant past, used to force
// pending writes to fail immediately.
var aLongTimeAgo = time.Unix(1, 0)

// Args parameterizes one attempt.
type Args struct {
	// Addr is the address handed to the dialer.
	Addr string
	// Deadline bounds the whole attempt. Zero means no deadline.
	Deadline time.Time
	// InitialBytes is written to the raw connection before the handshake
	// pipeline runs. A failed or short write aborts the attempt.
	InitialBytes []byte
	// Metadata is the option bag threaded through the attempt.
	Metadata metadata.Metadata
}

// Result is handed to the completion callback on success.
type Result struct {
	Transport transport.Transport
	Metadata  metadata.Metadata
}

// NotifyFunc receives the attempt outcome. Exactly one of res and err is
// set.
type NotifyFunc func(res *Result, err error)

// Connector owns one connection attempt from start to completion. All
// attempt work happens on a single goroutine spawned by Connect; Shutdown
// only signals it. A Connector is not reusable: one Connect per instance.
type Connector struct {
	options Options

	state atomic.Int32

	mu     sync.Mutex
	notify NotifyFunc
	cancel context.CancelFunc
	down   bool
}

// New builds a connector. The dialer and the transport factory are
// mandatory; a missing handshake manager means an empty pipeline.
func New(opts ...Option) *Connector {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Dialer == nil {
		panic("connector: nil dialer")
	}
	if options.Factory == nil {
		panic("connector: nil transport factory")
	}
	if options.Manager == nil {
		options.Manager = handshaker.NewManager(handshaker.LoggerOption(options.Logger))
	}
	if options.Logger == nil {
		options.Logger = logger.Default()
	}

	return &Connector{options: options}
}

// State reports the attempt state.
func (c *Connector) State() State {
	return State(c.state.Load())
}

// Connect starts the attempt and returns without blocking. notify fires
// exactly once with the outcome. Connecting on a connector that already
// ran panics; connecting after Shutdown completes immediately with
// ErrShutdown.
func (c *Connector) Connect(ctx context.Context, args Args, notify NotifyFunc) {
	if notify == nil {
		panic("connector: nil notify")
	}
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateConnecting)) {
		panic("connector: connect on a used connector")
	}

	c.mu.Lock()
	c.notify = notify
	if c.down {
		c.mu.Unlock()
		c.complete(nil, ErrShutdown)
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	go c.run(ctx, args)
}

// Shutdown cancels the in-flight attempt, if any. The completion callback
// still fires, with a cancellation error. Shutting down an idle connector
// makes a later Connect fail with ErrShutdown.
func (c *Connector) Shutdown() {
	c.mu.Lock()
	c.down = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (c *Connector) run(ctx context.Context, args Args) {
	log := c.options.Logger.WithFields(map[string]any{
		"addr":    args.Addr,
		"attempt": xid.New().String(),
	})

	if !args.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, args.Deadline)
		defer cancel()
	}

	metrics.Connects().Inc()
	start := time.Now()
	defer func() {
		metrics.ConnectSeconds().Observe(time.Since(start).Seconds())
	}()

	conn, err := c.options.Dialer.Dial(ctx, args.Addr)
	if err != nil {
		log.Errorf("dial %s: %v", args.Addr, err)
		metrics.ConnectErrors("dial").Inc()
		c.complete(nil, c.attemptErr(ctx, err))
		return
	}

	if len(args.InitialBytes) > 0 {
		c.state.Store(int32(StateWritingInitial))
		if err := writeInitial(ctx, conn, args.InitialBytes); err != nil {
			conn.Close()
			log.Errorf("write initial bytes: %v", err)
			metrics.ConnectErrors("write").Inc()
			c.complete(nil, c.attemptErr(ctx, err))
			return
		}
	}

	c.state.Store(int32(StateHandshaking))
	hres, err := c.options.Manager.Handshake(ctx, conn, args.Metadata,
		handshaker.AddrHandshakeOption(args.Addr))
	if err != nil {
		// the manager closed the connection
		log.Errorf("handshake: %v", err)
		metrics.ConnectErrors("handshake").Inc()
		c.complete(nil, c.attemptErr(ctx, err))
		return
	}

	tr, err := c.options.Factory.NewTransport(hres.Conn, hres.Metadata, hres.Leftover)
	if err != nil {
		panic(fmt.Sprintf("connector: transport over an established connection: %v", err))
	}

	metrics.Transports().Inc()
	log.Infof("connected to %s in %v", args.Addr, time.Since(start))
	c.complete(&Result{Transport: tr, Metadata: hres.Metadata}, nil)
}

// complete delivers the outcome. The callback slot is consumed under the
// lock, so a second delivery cannot happen silently.
func (c *Connector) complete(res *Result, err error) {
	c.state.Store(int32(StateDone))

	c.mu.Lock()
	notify := c.notify
	c.notify = nil
	c.mu.Unlock()

	if notify == nil {
		panic("connector: completion delivered twice")
	}
	notify(res, err)
}

// attemptErr prefers the attempt's cancellation cause over the stage
// error it provoked.
func (c *Connector) attemptErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}

// writeInitial writes b to conn before any handshake traffic. The write
// honors ctx while in flight; an interrupted or short write is fatal to
// the attempt.
func writeInitial(ctx context.Context, conn net.Conn, b []byte) error {
	if d, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(d)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(aLongTimeAgo)
		case <-done:
		}
	}()

	_, err := conn.Write(b)
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Time{})
	return nil
}
