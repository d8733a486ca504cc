package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-trunk/trunk/pkg/channel"
	"github.com/go-trunk/trunk/pkg/config"
	"github.com/go-trunk/trunk/pkg/dialer"
	"github.com/go-trunk/trunk/pkg/forward"
	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/metrics"
	"github.com/go-trunk/trunk/pkg/proxy"
	"github.com/go-trunk/trunk/pkg/registry"
	"github.com/go-trunk/trunk/pkg/transport"
)

func logFromConfig(cfg *config.LogConfig) logger.Logger {
	if cfg == nil {
		cfg = &config.LogConfig{}
	}
	opts := []logger.LoggerOption{
		logger.FormatLoggerOption(logger.LogFormat(cfg.Format)),
		logger.LevelLoggerOption(logger.LogLevel(cfg.Level)),
	}

	var out io.Writer = os.Stderr
	switch cfg.Output {
	case "none", "null":
		return logger.Nop()
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.Default().Warnf("open log file %s: %v", cfg.Output, err)
		} else {
			out = f
		}
	}
	opts = append(opts, logger.OutputLoggerOption(out))

	return logger.NewLogger(opts...)
}

func buildChannels(cfg *config.Config) (map[string]channel.Channel, error) {
	channels := make(map[string]channel.Channel)
	for _, cc := range cfg.Channels {
		if cc == nil || cc.Name == "" {
			continue
		}
		ch, err := buildChannel(cc, cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", cc.Name, err)
		}
		channels[cc.Name] = ch
	}
	return channels, nil
}

func buildChannel(cc *config.ChannelConfig, pc *config.ProxyConfig) (channel.Channel, error) {
	log := logger.Default()

	dialerType := "tcp"
	var dialerMD map[string]any
	if cc.Dialer != nil {
		if cc.Dialer.Type != "" {
			dialerType = cc.Dialer.Type
		}
		dialerMD = cc.Dialer.Metadata
	}
	newDialer := registry.DialerRegistry().Get(dialerType)
	if newDialer == nil {
		return nil, fmt.Errorf("unknown dialer: %s", dialerType)
	}
	d := newDialer(dialer.LoggerOption(log))
	if err := d.Init(metadata.New(dialerMD)); err != nil {
		return nil, fmt.Errorf("init dialer %s: %w", dialerType, err)
	}

	transportType := "smux"
	var transportMD map[string]any
	if cc.Transport != nil {
		if cc.Transport.Type != "" {
			transportType = cc.Transport.Type
		}
		transportMD = cc.Transport.Metadata
	}
	newFactory := registry.TransportRegistry().Get(transportType)
	if newFactory == nil {
		return nil, fmt.Errorf("unknown transport: %s", transportType)
	}

	opts := []channel.FactoryOption{
		channel.DialerOption(d),
		channel.TransportOption(newFactory(transport.LoggerOption(log))),
		channel.ProxyOption(proxyFromConfig(pc)),
		channel.LoggerOption(log),
	}
	if cc.ConnectTimeout > 0 {
		opts = append(opts, channel.ConnectTimeoutOption(cc.ConnectTimeout))
	}

	for _, hc := range cc.Handshakers {
		if hc == nil || hc.Type == "" {
			continue
		}
		newHandshaker := registry.HandshakerRegistry().Get(hc.Type)
		if newHandshaker == nil {
			return nil, fmt.Errorf("unknown handshaker: %s", hc.Type)
		}
		h := newHandshaker(handshaker.LoggerOption(log))
		if err := h.Init(metadata.New(hc.Metadata)); err != nil {
			return nil, fmt.Errorf("init handshaker %s: %w", hc.Type, err)
		}
		opts = append(opts, channel.HandshakersOption(h))
	}

	bag := map[string]any{}
	for k, v := range transportMD {
		bag[k] = v
	}
	for k, v := range cc.Metadata {
		bag[k] = v
	}
	if pc != nil && !pc.Disabled && pc.User != "" {
		bag["proxy.user"] = pc.User
	}

	return channel.NewFactory(opts...).NewChannel(cc.Target, metadata.New(bag))
}

func proxyFromConfig(pc *config.ProxyConfig) proxy.Func {
	if pc == nil {
		return proxy.FromEnvironment()
	}
	if pc.Disabled {
		return proxy.None()
	}
	if pc.Addr != "" {
		return proxy.Static(pc.Addr)
	}
	return proxy.FromEnvironment()
}

func buildForwarders(cfg *config.Config, channels map[string]channel.Channel) ([]*forward.Forwarder, error) {
	var forwarders []*forward.Forwarder
	for _, fc := range cfg.Forwards {
		if fc == nil || fc.Name == "" {
			continue
		}
		ch, ok := channels[fc.Channel]
		if !ok {
			return nil, fmt.Errorf("forward %s: unknown channel: %s", fc.Name, fc.Channel)
		}
		forwarders = append(forwarders, forward.New(fc.Name, fc.Addr, ch,
			forward.LoggerOption(logger.Default())))
	}
	return forwarders, nil
}

func buildMetricsService(cfg *config.MetricsConfig) (*metrics.Service, error) {
	var opts []metrics.Option
	if cfg.Path != "" {
		opts = append(opts, metrics.PathOption(cfg.Path))
	}
	return metrics.NewService(cfg.Addr, opts...)
}
