package handshaker

import (
	"github.com/go-trunk/trunk/pkg/logger"
)

type Options struct {
	Logger logger.Logger
}

type Option func(opts *Options)

func LoggerOption(logger logger.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

type HandshakeOptions struct {
	Addr     string
	Acceptor *Acceptor
}

type HandshakeOption func(opts *HandshakeOptions)

func AddrHandshakeOption(addr string) HandshakeOption {
	return func(opts *HandshakeOptions) {
		opts.Addr = addr
	}
}

func AcceptorHandshakeOption(acceptor *Acceptor) HandshakeOption {
	return func(opts *HandshakeOptions) {
		opts.Acceptor = acceptor
	}
}
