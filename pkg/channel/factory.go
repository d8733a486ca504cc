package channel

import (
	"net"
	"strings"
	"time"

	"github.com/go-trunk/trunk/pkg/connector"
	"github.com/go-trunk/trunk/pkg/dialer/tcp"
	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/handshaker/httpconnect"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/proxy"
	"github.com/go-trunk/trunk/pkg/transport/smux"
)

const DefaultConnectTimeout = 15 * time.Second

const (
	mdKeyTarget  = "trunk.target"
	mdKeyFactory = "trunk.factory"
)

// Factory builds channels and subchannels with a fixed stack: a dialer, a
// transport factory, and a proxy lookup deciding per target whether the
// attempt tunnels through a forward proxy.
type Factory struct {
	options FactoryOptions
}

func NewFactory(opts ...FactoryOption) *Factory {
	options := FactoryOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Dialer == nil {
		d := tcp.NewDialer()
		d.Init(metadata.New(nil))
		options.Dialer = d
	}
	if options.Transport == nil {
		options.Transport = smux.NewFactory()
	}
	if options.Proxy == nil {
		options.Proxy = proxy.FromEnvironment()
	}
	if options.ConnectTimeout <= 0 {
		options.ConnectTimeout = DefaultConnectTimeout
	}
	if options.Logger == nil {
		options.Logger = logger.Default()
	}

	return &Factory{options: options}
}

// NewSubchannel assembles the connector for one target. When the proxy
// lookup maps the target to a proxy, the attempt dials the proxy and runs
// a CONNECT step for the target; otherwise it dials the target directly.
func (f *Factory) NewSubchannel(target string, md metadata.Metadata) *Subchannel {
	log := f.options.Logger.WithFields(map[string]any{
		"target": target,
	})

	addr := target
	mgr := handshaker.NewManager(handshaker.LoggerOption(log))
	if proxyAddr, ok := f.options.Proxy(target); ok {
		h := httpconnect.NewHandshaker(handshaker.LoggerOption(log))
		hmd := metadata.Extend(proxyMetadata(md), map[string]any{
			"proxy":     proxyAddr,
			"authority": target,
		})
		if err := h.Init(hmd); err != nil {
			log.Errorf("init proxy handshaker: %v", err)
		}
		mgr.Add(h)
		addr = proxyAddr
		log.Debugf("routing through proxy %s", proxyAddr)
	}
	for _, h := range f.options.Handshakers {
		mgr.Add(h)
	}

	c := connector.New(
		connector.DialerOption(f.options.Dialer),
		connector.ManagerOption(mgr),
		connector.TransportOption(f.options.Transport),
		connector.LoggerOption(log),
	)

	return &Subchannel{
		target:         target,
		addr:           addr,
		md:             md,
		connectTimeout: f.options.ConnectTimeout,
		connector:      c,
		logger:         log,
		done:           make(chan struct{}),
	}
}

// NewChannel binds a channel to target. The channel dials lazily, on the
// first stream opened over it.
func (f *Factory) NewChannel(target string, md metadata.Metadata) (Channel, error) {
	if target == "" {
		return nil, NewError(CodeInternal, "empty target")
	}
	if _, _, err := net.SplitHostPort(target); err != nil {
		return nil, WrapError(err, CodeInternal, "invalid target")
	}

	md = metadata.Extend(md, map[string]any{
		mdKeyTarget:  target,
		mdKeyFactory: &factoryRef{factory: f},
	})

	return &clientChannel{
		target: target,
		sc:     f.NewSubchannel(target, md),
		logger: f.options.Logger,
	}, nil
}

// NewInsecure returns a plaintext channel to target. It never returns
// nil: when construction fails, the result is a lame channel that fails
// every call with an internal status carrying the cause.
func NewInsecure(target string, md metadata.Metadata, opts ...FactoryOption) Channel {
	f := NewFactory(opts...)
	ch, err := f.NewChannel(target, md)
	if err != nil {
		f.options.Logger.Errorf("create channel to %q: %v", target, err)
		return Lame(target, err)
	}
	return ch
}

// factoryRef is the pointer-valued bag entry carrying the owning factory.
// It copies by reference and compares by identity.
type factoryRef struct {
	factory *Factory
}

func (r *factoryRef) Copy() any {
	return r
}

func (r *factoryRef) Equal(v any) bool {
	o, ok := v.(*factoryRef)
	return ok && o.factory == r.factory
}

// TargetFromMetadata returns the target recorded in a channel's bag.
func TargetFromMetadata(md metadata.Metadata) string {
	if md == nil {
		return ""
	}
	return md.GetString(mdKeyTarget)
}

// FactoryFromMetadata returns the factory recorded in a channel's bag.
func FactoryFromMetadata(md metadata.Metadata) *Factory {
	if md == nil {
		return nil
	}
	ref, _ := md.Get(mdKeyFactory).(*factoryRef)
	if ref == nil {
		return nil
	}
	return ref.factory
}

// proxyMetadata projects the channel options that parameterize the proxy
// handshake: keys under "proxy." are forwarded with the prefix stripped.
func proxyMetadata(md metadata.Metadata) metadata.MapMetadata {
	out := map[string]any{}
	if md != nil {
		for _, k := range md.Keys() {
			if rest, ok := strings.CutPrefix(k, "proxy."); ok && rest != "" {
				out[rest] = md.Get(k)
			}
		}
	}
	return metadata.New(out)
}
