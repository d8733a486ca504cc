package channel

import (
	"context"
	"net"
)

// Lame returns a channel on which every operation fails with an internal
// status carrying cause. It stands in when a real channel cannot be
// built, so callers always receive a usable handle.
func Lame(target string, cause error) Channel {
	return &lameChannel{
		target: target,
		cause:  cause,
	}
}

type lameChannel struct {
	target string
	cause  error
}

func (ch *lameChannel) OpenStream(ctx context.Context) (net.Conn, error) {
	return nil, &Error{
		Code:    CodeInternal,
		Message: "failed to create client channel",
		Err:     ch.cause,
	}
}

func (ch *lameChannel) Target() string {
	return ch.target
}

func (ch *lameChannel) Close() error {
	return nil
}
