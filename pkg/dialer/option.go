package dialer

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

type DialOptions struct {
}

type DialOption func(opts *DialOptions)
