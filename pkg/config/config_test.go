package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sample = `
log:
  level: debug
  format: json
metrics:
  addr: :9000
proxy:
  addr: proxy.internal:8080
  user: alice:secret
channels:
- name: backend
  target: backend.internal:7000
  connectTimeout: 20s
  dialer:
    type: kcp
    metadata:
      mtu: 1350
  transport:
    type: smux
  handshakers:
  - type: ws
    metadata:
      path: /tunnel
  metadata:
    mux.maxFrameSize: 16384
forwards:
- name: local
  addr: 127.0.0.1:8000
  channel: backend
`

func TestRead(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Read(strings.NewReader(sample)))

	require.NotNil(t, cfg.Log)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)

	require.NotNil(t, cfg.Metrics)
	require.Equal(t, ":9000", cfg.Metrics.Addr)

	require.NotNil(t, cfg.Proxy)
	require.Equal(t, "proxy.internal:8080", cfg.Proxy.Addr)
	require.Equal(t, "alice:secret", cfg.Proxy.User)

	require.Len(t, cfg.Channels, 1)
	ch := cfg.Channels[0]
	require.Equal(t, "backend", ch.Name)
	require.Equal(t, "backend.internal:7000", ch.Target)
	require.Equal(t, 20*time.Second, ch.ConnectTimeout)
	require.Equal(t, "kcp", ch.Dialer.Type)
	require.Equal(t, 1350, ch.Dialer.Metadata["mtu"])
	require.Equal(t, "smux", ch.Transport.Type)
	require.Len(t, ch.Handshakers, 1)
	require.Equal(t, "ws", ch.Handshakers[0].Type)

	require.Len(t, cfg.Forwards, 1)
	require.Equal(t, "backend", cfg.Forwards[0].Channel)
}

func TestWrite(t *testing.T) {
	cfg := &Config{
		Log: &LogConfig{Level: "info"},
		Channels: []*ChannelConfig{
			{Name: "backend", Target: "backend.internal:7000"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	require.Contains(t, buf.String(), "backend.internal:7000")
	require.Contains(t, buf.String(), "level: info")
}

func TestGlobal(t *testing.T) {
	Set(&Config{Log: &LogConfig{Level: "warn"}})
	cfg := Global()
	require.Equal(t, "warn", cfg.Log.Level)

	// mutating the copy leaves the global alone
	cfg.Log = nil
	require.NotNil(t, Global().Log)
}
