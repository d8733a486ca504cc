package quic

import (
	"time"

	md "github.com/go-trunk/trunk/pkg/metadata"
)

const (
	alpnProto = "trunk"

	defaultMaxIdleTimeout  = 30 * time.Second
	defaultKeepAlivePeriod = 10 * time.Second
)

type metadata struct {
	serverName string
	secure     bool

	maxIdleTimeout   time.Duration
	keepAlivePeriod  time.Duration
	handshakeTimeout time.Duration
}

func (d *quicDialer) parseMetadata(mdata md.Metadata) (err error) {
	const (
		serverName       = "serverName"
		secure           = "secure"
		maxIdleTimeout   = "maxIdleTimeout"
		keepAlivePeriod  = "keepAlivePeriod"
		handshakeTimeout = "handshakeTimeout"
	)

	d.md.serverName = mdata.GetString(serverName)
	d.md.secure = mdata.GetBool(secure)

	d.md.maxIdleTimeout = mdata.GetDuration(maxIdleTimeout)
	if d.md.maxIdleTimeout <= 0 {
		d.md.maxIdleTimeout = defaultMaxIdleTimeout
	}
	d.md.keepAlivePeriod = mdata.GetDuration(keepAlivePeriod)
	if d.md.keepAlivePeriod <= 0 {
		d.md.keepAlivePeriod = defaultKeepAlivePeriod
	}
	d.md.handshakeTimeout = mdata.GetDuration(handshakeTimeout)
	return
}
