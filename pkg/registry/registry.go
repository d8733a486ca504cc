package registry

import (
	"errors"
	"sync"
)

var (
	ErrDup = errors.New("registry: duplicate object")
)

var (
	dialerReg     Registry[NewDialer]           = &dialerRegistry{}
	handshakerReg Registry[NewHandshaker]       = &handshakerRegistry{}
	transportReg  Registry[NewTransportFactory] = &transportRegistry{}
)

type Registry[T any] interface {
	Register(name string, v T) error
	Unregister(name string)
	IsRegistered(name string) bool
	Get(name string) T
}

type registry struct {
	m sync.Map
}

func (r *registry) Register(name string, v any) error {
	if name == "" || v == nil {
		return nil
	}
	if _, loaded := r.m.LoadOrStore(name, v); loaded {
		return ErrDup
	}

	return nil
}

func (r *registry) Unregister(name string) {
	r.m.Delete(name)
}

func (r *registry) IsRegistered(name string) bool {
	_, ok := r.m.Load(name)
	return ok
}

func (r *registry) Get(name string) any {
	if name == "" {
		return nil
	}
	v, _ := r.m.Load(name)
	return v
}

func DialerRegistry() Registry[NewDialer] {
	return dialerReg
}

func HandshakerRegistry() Registry[NewHandshaker] {
	return handshakerReg
}

func TransportRegistry() Registry[NewTransportFactory] {
	return transportReg
}
