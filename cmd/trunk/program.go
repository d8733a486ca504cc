package main

import (
	"errors"
	"os"

	"github.com/judwhite/go-svc"
	"github.com/spf13/viper"

	"github.com/go-trunk/trunk/pkg/channel"
	"github.com/go-trunk/trunk/pkg/config"
	"github.com/go-trunk/trunk/pkg/forward"
	"github.com/go-trunk/trunk/pkg/logger"
	"github.com/go-trunk/trunk/pkg/metrics"
)

type program struct {
	channels   map[string]channel.Channel
	forwarders []*forward.Forwarder
}

func (p *program) Init(env svc.Environment) error {
	cfg := &config.Config{}
	if cfgFile != "" {
		if err := cfg.ReadFile(cfgFile); err != nil {
			logger.Default().Error(err)
			return err
		}
	} else {
		if err := cfg.Load(); err != nil {
			// A missing config file just means nothing to run yet.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}

	if v := os.Getenv("TRUNK_LOGGER_LEVEL"); v != "" {
		cfg.Log = &config.LogConfig{
			Level: v,
		}
	}
	if v := os.Getenv("TRUNK_METRICS"); v != "" {
		cfg.Metrics = &config.MetricsConfig{
			Addr: v,
		}
	}

	if debug {
		if cfg.Log == nil {
			cfg.Log = &config.LogConfig{}
		}
		cfg.Log.Level = string(logger.DebugLevel)
	}
	if metricsAddr != "" {
		cfg.Metrics = &config.MetricsConfig{
			Addr: metricsAddr,
		}
	}

	logger.SetDefault(logFromConfig(cfg.Log))

	config.Set(cfg)

	return nil
}

func (p *program) Start() error {
	log := logger.Default()
	cfg := config.Global()

	if cfg.Metrics != nil && cfg.Metrics.Addr != "" {
		metrics.SetGlobal(metrics.NewMetrics())
		s, err := buildMetricsService(cfg.Metrics)
		if err != nil {
			return err
		}
		go func() {
			defer s.Close()
			log.Info("metrics service on ", s.Addr())
			log.Fatal(s.Serve())
		}()
	}

	channels, err := buildChannels(cfg)
	if err != nil {
		return err
	}
	p.channels = channels

	forwarders, err := buildForwarders(cfg, channels)
	if err != nil {
		return err
	}
	p.forwarders = forwarders

	for _, f := range p.forwarders {
		f := f
		go func() {
			f.Serve()
		}()
	}

	return nil
}

func (p *program) Stop() error {
	log := logger.Default()
	for _, f := range p.forwarders {
		f.Close()
		log.Debugf("forwarder %s shutdown", f.Name())
	}
	for name, ch := range p.channels {
		ch.Close()
		log.Debugf("channel %s shutdown", name)
	}
	return nil
}
