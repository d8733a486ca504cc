package tcp

import (
	"time"

	md "github.com/go-trunk/trunk/pkg/metadata"
)

const (
	defaultDialTimeout = 5 * time.Second
)

type metadata struct {
	dialTimeout time.Duration
	keepAlive   time.Duration
}

func (d *tcpDialer) parseMetadata(md md.Metadata) (err error) {
	const (
		dialTimeout = "dialTimeout"
		keepAlive   = "keepAlive"
	)

	d.md.dialTimeout = md.GetDuration(dialTimeout)
	if d.md.dialTimeout <= 0 {
		d.md.dialTimeout = defaultDialTimeout
	}
	d.md.keepAlive = md.GetDuration(keepAlive)
	return
}
