package smux

import (
	smux "github.com/xtaci/smux"

	md "github.com/go-trunk/trunk/pkg/metadata"
)

func parseConfig(mdata md.Metadata) *smux.Config {
	const (
		keepAliveDisabled = "mux.keepAliveDisabled"
		keepAliveInterval = "mux.keepAliveInterval"
		keepAliveTimeout  = "mux.keepAliveTimeout"
		maxFrameSize      = "mux.maxFrameSize"
		maxReceiveBuffer  = "mux.maxReceiveBuffer"
		maxStreamBuffer   = "mux.maxStreamBuffer"
	)

	cfg := smux.DefaultConfig()
	if mdata == nil {
		return cfg
	}

	cfg.KeepAliveDisabled = mdata.GetBool(keepAliveDisabled)
	if v := mdata.GetDuration(keepAliveInterval); v > 0 {
		cfg.KeepAliveInterval = v
	}
	if v := mdata.GetDuration(keepAliveTimeout); v > 0 {
		cfg.KeepAliveTimeout = v
	}
	if v := mdata.GetInt(maxFrameSize); v > 0 {
		cfg.MaxFrameSize = v
	}
	if v := mdata.GetInt(maxReceiveBuffer); v > 0 {
		cfg.MaxReceiveBuffer = v
	}
	if v := mdata.GetInt(maxStreamBuffer); v > 0 {
		cfg.MaxStreamBuffer = v
	}

	if err := smux.VerifyConfig(cfg); err != nil {
		return smux.DefaultConfig()
	}
	return cfg
}
