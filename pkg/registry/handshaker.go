package registry

import (
	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/logger"
)

type NewHandshaker func(opts ...handshaker.Option) handshaker.Handshaker

type handshakerRegistry struct {
	registry
}

func (r *handshakerRegistry) Register(name string, v NewHandshaker) error {
	if err := r.registry.Register(name, v); err != nil {
		logger.Default().Fatal(err)
	}
	return nil
}

func (r *handshakerRegistry) Get(name string) NewHandshaker {
	if v := r.registry.Get(name); v != nil {
		return v.(NewHandshaker)
	}
	return nil
}
