package kcp

import (
	"context"
	"io"
	"testing"
	"time"

	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/stretchr/testify/require"
	"github.com/xtaci/kcp-go/v5"
)

func TestDialEcho(t *testing.T) {
	ln, err := kcp.ListenWithOptions("127.0.0.1:0", nil, 0, 0)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		s, err := ln.AcceptKCP()
		if err != nil {
			return
		}
		defer s.Close()
		io.Copy(s, s)
	}()

	d := NewDialer()
	require.NoError(t, d.Init(md.New(map[string]any{"sndWnd": 256})))

	conn, err := d.Dial(context.Background(), ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(5 * time.Second))

	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf))
}
