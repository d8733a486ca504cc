// Package channel assembles connection attempts into client channels: a
// channel owns a subchannel to its target and hands out multiplexed
// streams over the transport the attempt produced.
package channel

import (
	"context"
	"net"

	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metrics"
)

// Channel is a logical connection to one target, able to open byte
// streams on demand. The underlying connection is established lazily on
// first use.
type Channel interface {
	// OpenStream opens a stream on the channel's transport, waiting under
	// ctx for the connection to come up.
	OpenStream(ctx context.Context) (net.Conn, error)
	// Target names the endpoint the channel was created for.
	Target() string
	Close() error
}

type clientChannel struct {
	target string
	sc     *Subchannel
	logger logger.Logger
}

func (ch *clientChannel) OpenStream(ctx context.Context) (net.Conn, error) {
	tr, err := ch.sc.Transport(ctx)
	if err != nil {
		return nil, WrapError(err, codeForErr(err), "channel unavailable")
	}

	stream, err := tr.OpenStream()
	if err != nil {
		return nil, WrapError(err, CodeUnavailable, "open stream")
	}
	metrics.Streams().Inc()
	return stream, nil
}

func (ch *clientChannel) Target() string {
	return ch.target
}

func (ch *clientChannel) Close() error {
	return ch.sc.Close()
}
