package connector

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-trunk/trunk/pkg/dialer"
	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/transport"
)

type fakeDialer struct {
	conn  net.Conn
	err   error
	delay time.Duration
}

func (d *fakeDialer) Init(md metadata.Metadata) error {
	return nil
}

func (d *fakeDialer) Dial(ctx context.Context, addr string, opts ...dialer.DialOption) (net.Conn, error) {
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

type fakeTransport struct {
	conn   net.Conn
	closed atomic.Bool
}

func (t *fakeTransport) OpenStream() (net.Conn, error) { return t.conn, nil }
func (t *fakeTransport) NumStreams() int               { return 0 }
func (t *fakeTransport) IsClosed() bool                { return t.closed.Load() }
func (t *fakeTransport) Close() error                  { t.closed.Store(true); return nil }

type fakeFactory struct {
	mu       sync.Mutex
	called   int
	conn     net.Conn
	md       metadata.Metadata
	leftover []byte
}

func (f *fakeFactory) NewTransport(conn net.Conn, md metadata.Metadata, leftover []byte) (transport.Transport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called++
	f.conn, f.md, f.leftover = conn, md, leftover
	return &fakeTransport{conn: conn}, nil
}

type funcHandshaker struct {
	fn func(ctx context.Context, conn net.Conn, md metadata.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error)
}

func (h *funcHandshaker) Init(md metadata.Metadata) error {
	return nil
}

func (h *funcHandshaker) Handshake(ctx context.Context, conn net.Conn, md metadata.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
	return h.fn(ctx, conn, md, opts...)
}

type recordConn struct {
	net.Conn
	mu     sync.Mutex
	writes [][]byte
}

func (c *recordConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	c.writes = append(c.writes, append([]byte(nil), b...))
	c.mu.Unlock()
	return c.Conn.Write(b)
}

type failWriteConn struct {
	net.Conn
	closed atomic.Int32
}

func (c *failWriteConn) Write(b []byte) (int, error) {
	return 0, errors.New("write refused")
}

func (c *failWriteConn) Close() error {
	c.closed.Add(1)
	return c.Conn.Close()
}

type outcome struct {
	res *Result
	err error
}

func collect(ch chan outcome) NotifyFunc {
	return func(res *Result, err error) {
		ch <- outcome{res: res, err: err}
	}
}

func wait(t *testing.T, ch chan outcome) outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(3 * time.Second):
		t.Fatal("attempt did not complete")
		return outcome{}
	}
}

func drainPipe(conn net.Conn) {
	go io.Copy(io.Discard, conn)
}

func TestConnectSuccess(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()
	drainPipe(right)

	factory := &fakeFactory{}
	mgr := handshaker.NewManager()
	mgr.Add(&funcHandshaker{fn: func(ctx context.Context, conn net.Conn, md metadata.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
		return &handshaker.Result{
			Conn:     conn,
			Metadata: metadata.Extend(md, map[string]any{"negotiated": true}),
		}, nil
	}})

	c := New(
		DialerOption(&fakeDialer{conn: left}),
		ManagerOption(mgr),
		TransportOption(factory),
	)
	require.Equal(t, StateIdle, c.State())

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{
		Addr:     "target.example.com:9000",
		Metadata: metadata.New(map[string]any{"base": 1}),
	}, collect(ch))

	o := wait(t, ch)
	require.NoError(t, o.err)
	require.NotNil(t, o.res)
	require.NotNil(t, o.res.Transport)
	require.True(t, o.res.Metadata.GetBool("negotiated"))
	require.Equal(t, 1, o.res.Metadata.GetInt("base"))
	require.Equal(t, StateDone, c.State())

	factory.mu.Lock()
	defer factory.mu.Unlock()
	require.Equal(t, 1, factory.called)
	require.Same(t, left, factory.conn)
}

func TestConnectWritesInitialBytesBeforeHandshake(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()
	drainPipe(right)

	conn := &recordConn{Conn: left}
	mgr := handshaker.NewManager()
	mgr.Add(&funcHandshaker{fn: func(ctx context.Context, c net.Conn, md metadata.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
		if _, err := c.Write([]byte("hs")); err != nil {
			return nil, err
		}
		return &handshaker.Result{Conn: c}, nil
	}})

	c := New(
		DialerOption(&fakeDialer{conn: conn}),
		ManagerOption(mgr),
		TransportOption(&fakeFactory{}),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{
		Addr:         "target.example.com:9000",
		InitialBytes: []byte("hello"),
	}, collect(ch))

	o := wait(t, ch)
	require.NoError(t, o.err)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	require.Len(t, conn.writes, 2)
	require.Equal(t, []byte("hello"), conn.writes[0])
	require.Equal(t, []byte("hs"), conn.writes[1])
}

func TestConnectNoInitialBytesSkipsWrite(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()
	drainPipe(right)

	conn := &recordConn{Conn: left}
	c := New(
		DialerOption(&fakeDialer{conn: conn}),
		TransportOption(&fakeFactory{}),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))

	o := wait(t, ch)
	require.NoError(t, o.err)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	require.Empty(t, conn.writes)
}

func TestConnectDialFailure(t *testing.T) {
	errDial := errors.New("no route")
	c := New(
		DialerOption(&fakeDialer{err: errDial}),
		TransportOption(&fakeFactory{}),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))

	o := wait(t, ch)
	require.ErrorIs(t, o.err, errDial)
	require.Nil(t, o.res)
	require.Equal(t, StateDone, c.State())
}

func TestConnectWriteFailureAborts(t *testing.T) {
	left, right := net.Pipe()
	defer right.Close()

	conn := &failWriteConn{Conn: left}
	var handshakeRan atomic.Bool
	mgr := handshaker.NewManager()
	mgr.Add(&funcHandshaker{fn: func(ctx context.Context, c net.Conn, md metadata.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
		handshakeRan.Store(true)
		return &handshaker.Result{Conn: c}, nil
	}})

	factory := &fakeFactory{}
	c := New(
		DialerOption(&fakeDialer{conn: conn}),
		ManagerOption(mgr),
		TransportOption(factory),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{
		Addr:         "target.example.com:9000",
		InitialBytes: []byte("hello"),
	}, collect(ch))

	o := wait(t, ch)
	require.Error(t, o.err)
	require.False(t, handshakeRan.Load())
	require.EqualValues(t, 1, conn.closed.Load())

	factory.mu.Lock()
	defer factory.mu.Unlock()
	require.Zero(t, factory.called)
}

func TestConnectHandshakeFailure(t *testing.T) {
	left, right := net.Pipe()
	defer right.Close()

	errHS := errors.New("bad greeting")
	mgr := handshaker.NewManager()
	mgr.Add(&funcHandshaker{fn: func(ctx context.Context, c net.Conn, md metadata.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
		return nil, errHS
	}})

	factory := &fakeFactory{}
	c := New(
		DialerOption(&fakeDialer{conn: left}),
		ManagerOption(mgr),
		TransportOption(factory),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))

	o := wait(t, ch)
	require.ErrorIs(t, o.err, errHS)

	factory.mu.Lock()
	defer factory.mu.Unlock()
	require.Zero(t, factory.called)
}

func TestConnectLeftoverReachesFactory(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	mgr := handshaker.NewManager()
	mgr.Add(&funcHandshaker{fn: func(ctx context.Context, c net.Conn, md metadata.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
		return &handshaker.Result{Conn: c, Leftover: []byte("tail")}, nil
	}})

	factory := &fakeFactory{}
	c := New(
		DialerOption(&fakeDialer{conn: left}),
		ManagerOption(mgr),
		TransportOption(factory),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))

	o := wait(t, ch)
	require.NoError(t, o.err)

	factory.mu.Lock()
	defer factory.mu.Unlock()
	require.Equal(t, []byte("tail"), factory.leftover)
}

func TestConnectDeadline(t *testing.T) {
	c := New(
		DialerOption(&fakeDialer{delay: time.Second}),
		TransportOption(&fakeFactory{}),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{
		Addr:     "target.example.com:9000",
		Deadline: time.Now().Add(30 * time.Millisecond),
	}, collect(ch))

	o := wait(t, ch)
	require.ErrorIs(t, o.err, context.DeadlineExceeded)
}

func TestShutdownCancelsInFlight(t *testing.T) {
	c := New(
		DialerOption(&fakeDialer{delay: 10 * time.Second}),
		TransportOption(&fakeFactory{}),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))

	time.Sleep(20 * time.Millisecond)
	c.Shutdown()

	o := wait(t, ch)
	require.ErrorIs(t, o.err, context.Canceled)
}

func TestConnectAfterShutdown(t *testing.T) {
	c := New(
		DialerOption(&fakeDialer{}),
		TransportOption(&fakeFactory{}),
	)
	c.Shutdown()

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))

	o := wait(t, ch)
	require.ErrorIs(t, o.err, ErrShutdown)
	require.Equal(t, StateDone, c.State())
}

func TestShutdownAfterCompleteIsHarmless(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	c := New(
		DialerOption(&fakeDialer{conn: left}),
		TransportOption(&fakeFactory{}),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))
	o := wait(t, ch)
	require.NoError(t, o.err)

	c.Shutdown()
	select {
	case <-ch:
		t.Fatal("completion delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConnectTwicePanics(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	c := New(
		DialerOption(&fakeDialer{conn: left}),
		TransportOption(&fakeFactory{}),
	)

	ch := make(chan outcome, 1)
	c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))
	wait(t, ch)

	require.Panics(t, func() {
		c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, collect(ch))
	})
}

func TestConnectNilNotifyPanics(t *testing.T) {
	c := New(
		DialerOption(&fakeDialer{}),
		TransportOption(&fakeFactory{}),
	)
	require.Panics(t, func() {
		c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, nil)
	})
}

func TestNewMissingDepsPanics(t *testing.T) {
	require.Panics(t, func() {
		New(TransportOption(&fakeFactory{}))
	})
	require.Panics(t, func() {
		New(DialerOption(&fakeDialer{}))
	})
}

func TestCompletionExactlyOnceUnderRace(t *testing.T) {
	const rounds = 1000

	var completions atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		left, right := net.Pipe()

		c := New(
			DialerOption(&fakeDialer{conn: left}),
			TransportOption(&fakeFactory{}),
			LoggerOption(logger.Nop()),
		)

		done := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Connect(context.Background(), Args{Addr: "target.example.com:9000"}, func(res *Result, err error) {
				completions.Add(1)
				close(done)
			})
		}()
		go func() {
			defer wg.Done()
			c.Shutdown()
		}()

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatal("attempt did not complete")
		}
		left.Close()
		right.Close()
	}
	wg.Wait()
	require.EqualValues(t, rounds, completions.Load())
}
