package channel

import (
	"context"
	"sync"
	"time"

	"github.com/go-trunk/trunk/pkg/connector"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/metrics"
	"github.com/go-trunk/trunk/pkg/transport"
)

// Subchannel owns one connection attempt to a target and the transport it
// yields. The attempt is started at most once, on first demand, and lives
// independently of the callers waiting on it.
type Subchannel struct {
	target         string
	addr           string
	md             metadata.Metadata
	connectTimeout time.Duration
	connector      *connector.Connector
	logger         logger.Logger

	mu      sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
	tr      transport.Transport
	err     error
}

// Connect triggers the attempt if it has not run yet. The attempt runs on
// its own context: callers abandoning their wait do not tear it down.
func (sc *Subchannel) Connect() {
	sc.mu.Lock()
	if sc.started {
		sc.mu.Unlock()
		return
	}
	sc.started = true
	sc.mu.Unlock()

	args := connector.Args{
		Addr:     sc.addr,
		Metadata: sc.md,
	}
	if sc.connectTimeout > 0 {
		args.Deadline = time.Now().Add(sc.connectTimeout)
	}

	sc.connector.Connect(context.Background(), args, func(res *connector.Result, err error) {
		sc.mu.Lock()
		defer sc.mu.Unlock()
		switch {
		case err != nil:
			sc.err = err
		case sc.closed:
			// lost the race against Close
			res.Transport.Close()
			metrics.Transports().Dec()
			sc.err = NewError(CodeCanceled, "subchannel closed")
		default:
			sc.tr = res.Transport
		}
		close(sc.done)
	})
}

// Transport returns the attempt outcome, starting the attempt on first
// call and waiting under ctx.
func (sc *Subchannel) Transport(ctx context.Context) (transport.Transport, error) {
	sc.Connect()

	select {
	case <-sc.done:
		sc.mu.Lock()
		defer sc.mu.Unlock()
		return sc.tr, sc.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Target names the endpoint the subchannel connects to.
func (sc *Subchannel) Target() string {
	return sc.target
}

// Close shuts the attempt down and closes the transport if one was
// produced. Closing twice is harmless.
func (sc *Subchannel) Close() error {
	sc.mu.Lock()
	if sc.closed {
		sc.mu.Unlock()
		return nil
	}
	sc.closed = true
	tr := sc.tr
	sc.mu.Unlock()

	sc.connector.Shutdown()
	if tr != nil {
		metrics.Transports().Dec()
		return tr.Close()
	}
	return nil
}
