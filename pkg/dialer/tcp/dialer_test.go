package tcp

import (
	"context"
	"net"
	"testing"
	"time"

	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/stretchr/testify/require"
)

func TestDial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan struct{})
	go func() {
		c, err := ln.Accept()
		if err == nil {
			c.Close()
		}
		close(accepted)
	}()

	d := NewDialer()
	require.NoError(t, d.Init(md.New(nil)))

	conn, err := d.Dial(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-accepted:
	case <-time.After(time.Second):
		t.Fatal("listener did not accept")
	}
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	d := NewDialer()
	require.NoError(t, d.Init(md.New(nil)))

	_, err = d.Dial(context.Background(), addr)
	require.Error(t, err)
}

func TestDialHonorsContext(t *testing.T) {
	d := NewDialer()
	require.NoError(t, d.Init(md.New(map[string]any{"dialTimeout": "10s"})))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Reserved TEST-NET-1 address, nothing listens there.
	_, err := d.Dial(ctx, "192.0.2.1:12345")
	require.Error(t, err)
}
