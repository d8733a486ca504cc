package registry

import (
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/transport"
)

type NewTransportFactory func(opts ...transport.Option) transport.Factory

type transportRegistry struct {
	registry
}

func (r *transportRegistry) Register(name string, v NewTransportFactory) error {
	if err := r.registry.Register(name, v); err != nil {
		logger.Default().Fatal(err)
	}
	return nil
}

func (r *transportRegistry) Get(name string) NewTransportFactory {
	if v := r.registry.Get(name); v != nil {
		return v.(NewTransportFactory)
	}
	return nil
}
