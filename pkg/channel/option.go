package channel

import (
	"time"

	"github.com/go-trunk/trunk/pkg/dialer"
	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/proxy"
	"github.com/go-trunk/trunk/pkg/transport"
)

type FactoryOptions struct {
	Dialer         dialer.Dialer
	Transport      transport.Factory
	Proxy          proxy.Func
	Handshakers    []handshaker.Handshaker
	ConnectTimeout time.Duration
	Logger         logger.Logger
}

type FactoryOption func(opts *FactoryOptions)

func DialerOption(d dialer.Dialer) FactoryOption {
	return func(opts *FactoryOptions) {
		opts.Dialer = d
	}
}

func TransportOption(f transport.Factory) FactoryOption {
	return func(opts *FactoryOptions) {
		opts.Transport = f
	}
}

func ProxyOption(f proxy.Func) FactoryOption {
	return func(opts *FactoryOptions) {
		opts.Proxy = f
	}
}

// HandshakersOption appends negotiation steps run on every attempt, after
// the proxy step when one applies.
func HandshakersOption(hs ...handshaker.Handshaker) FactoryOption {
	return func(opts *FactoryOptions) {
		opts.Handshakers = append(opts.Handshakers, hs...)
	}
}

func ConnectTimeoutOption(d time.Duration) FactoryOption {
	return func(opts *FactoryOptions) {
		opts.ConnectTimeout = d
	}
}

func LoggerOption(logger logger.Logger) FactoryOption {
	return func(opts *FactoryOptions) {
		opts.Logger = logger
	}
}
