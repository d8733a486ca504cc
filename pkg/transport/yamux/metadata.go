package yamux

import (
	"io"
	"log"

	"github.com/hashicorp/yamux"

	md "github.com/go-trunk/trunk/pkg/metadata"
)

func parseConfig(mdata md.Metadata) *yamux.Config {
	const (
		keepAliveDisabled = "mux.keepAliveDisabled"
		keepAliveInterval = "mux.keepAliveInterval"
		maxStreamWindow   = "mux.maxStreamWindow"
		streamOpenTimeout = "mux.streamOpenTimeout"
	)

	cfg := yamux.DefaultConfig()
	cfg.LogOutput = nil
	cfg.Logger = log.New(io.Discard, "", log.LstdFlags)
	if mdata == nil {
		return cfg
	}

	cfg.EnableKeepAlive = !mdata.GetBool(keepAliveDisabled)
	if v := mdata.GetDuration(keepAliveInterval); v > 0 {
		cfg.KeepAliveInterval = v
	}
	if v := mdata.GetInt(maxStreamWindow); v > 0 {
		cfg.MaxStreamWindowSize = uint32(v)
	}
	if v := mdata.GetDuration(streamOpenTimeout); v > 0 {
		cfg.StreamOpenTimeout = v
	}

	if err := yamux.VerifyConfig(cfg); err != nil {
		cfg = yamux.DefaultConfig()
		cfg.LogOutput = nil
		cfg.Logger = log.New(io.Discard, "", log.LstdFlags)
	}
	return cfg
}
