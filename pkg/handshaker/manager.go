package handshaker

import (
	"context"
	"net"
	"sync"
	"time"

	conn_util "github.com/go-trunk/trunk/pkg/internal/util/conn"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metadata"
)

// aLongTimeAgo is a non-zero time in the distant past, used to force
// pending reads and writes to fail immediately.
var aLongTimeAgo = time.Unix(1, 0)

// Manager runs an ordered pipeline of handshakers over one connection.
// The zero-length pipeline passes the connection through untouched.
type Manager struct {
	mu          sync.Mutex
	handshakers []Handshaker
	started     bool
	logger      logger.Logger
}

func NewManager(opts ...Option) *Manager {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	log := options.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Manager{
		logger: log,
	}
}

// Add appends h to the pipeline. The pipeline is fixed once Handshake has
// been called; adding afterwards panics.
func (m *Manager) Add(h Handshaker) {
	if h == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		panic("handshaker: add after handshake started")
	}
	m.handshakers = append(m.handshakers, h)
}

// Handshakers returns a snapshot of the pipeline in execution order.
func (m *Manager) Handshakers() []Handshaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Handshaker(nil), m.handshakers...)
}

// Handshake runs the pipeline over conn in insertion order, threading the
// option bag through the steps and replaying bytes one step over-read into
// the input of the next. A manager runs at most once; a second call
// panics. When a step fails, the connection is closed here and later steps
// never run. If ctx ended during the step, the context error wins over the
// step's own.
func (m *Manager) Handshake(ctx context.Context, conn net.Conn, md metadata.Metadata, opts ...HandshakeOption) (*Result, error) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		panic("handshaker: handshake already run")
	}
	m.started = true
	pipeline := m.handshakers
	m.mu.Unlock()

	if len(pipeline) == 0 {
		return &Result{Conn: conn, Metadata: md}, nil
	}

	// Unblock in-flight IO on the raw connection when ctx ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.SetDeadline(aLongTimeAgo)
		case <-done:
		}
	}()

	cur := conn
	var leftover []byte
	for i, h := range pipeline {
		res, err := h.Handshake(ctx, cur, md, opts...)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				err = cerr
			}
			cur.Close()
			m.logger.Debugf("handshake %d/%d: %v", i+1, len(pipeline), err)
			return nil, err
		}

		if res.Conn != nil {
			cur = res.Conn
		}
		if res.Metadata != nil {
			md = res.Metadata
		}
		leftover = res.Leftover
		if i < len(pipeline)-1 && len(leftover) > 0 {
			cur = conn_util.WithLeftover(cur, leftover)
			leftover = nil
		}
	}

	return &Result{Conn: cur, Metadata: md, Leftover: leftover}, nil
}
