package main

import (
	// Register dialers
	_ "github.com/go-trunk/trunk/pkg/dialer/kcp"
	_ "github.com/go-trunk/trunk/pkg/dialer/quic"
	_ "github.com/go-trunk/trunk/pkg/dialer/tcp"

	// Register handshakers
	_ "github.com/go-trunk/trunk/pkg/handshaker/httpconnect"
	_ "github.com/go-trunk/trunk/pkg/handshaker/wsupgrade"

	// Register transports
	_ "github.com/go-trunk/trunk/pkg/transport/smux"
	_ "github.com/go-trunk/trunk/pkg/transport/yamux"
)
