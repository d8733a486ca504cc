package yamux

import (
	"io"
	"net"
	"testing"

	"github.com/hashicorp/yamux"

	"github.com/stretchr/testify/require"

	"github.com/go-trunk/trunk/pkg/metadata"
)

func TestTransportEcho(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	go func() {
		session, err := yamux.Server(right, parseConfig(nil))
		if err != nil {
			return
		}
		defer session.Close()
		stream, err := session.AcceptStream()
		if err != nil {
			return
		}
		defer stream.Close()
		io.Copy(stream, stream)
	}()

	tr, err := NewFactory().NewTransport(left, nil, nil)
	require.NoError(t, err)
	defer tr.Close()
	require.False(t, tr.IsClosed())

	stream, err := tr.OpenStream()
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Write([]byte("pong"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = io.ReadFull(stream, buf)
	require.NoError(t, err)
	require.Equal(t, "pong", string(buf))

	require.NoError(t, tr.Close())
	require.True(t, tr.IsClosed())
}

func TestParseConfigOverrides(t *testing.T) {
	cfg := parseConfig(metadata.New(map[string]any{
		"mux.keepAliveDisabled": true,
		"mux.maxStreamWindow":   1 << 20,
	}))
	require.False(t, cfg.EnableKeepAlive)
	require.EqualValues(t, 1<<20, cfg.MaxStreamWindowSize)
}
