package connector

import (
	"github.com/go-trunk/trunk/pkg/dialer"
	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/transport"
)

type Options struct {
	Dialer  dialer.Dialer
	Manager *handshaker.Manager
	Factory transport.Factory
	Logger  logger.Logger
}

type Option func(opts *Options)

func DialerOption(d dialer.Dialer) Option {
	return func(opts *Options) {
		opts.Dialer = d
	}
}

func ManagerOption(m *handshaker.Manager) Option {
	return func(opts *Options) {
		opts.Manager = m
	}
}

func TransportOption(f transport.Factory) Option {
	return func(opts *Options) {
		opts.Factory = f
	}
}

func LoggerOption(logger logger.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
