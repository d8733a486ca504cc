package wsupgrade

import (
	"net/http"
	"time"

	md "github.com/go-trunk/trunk/pkg/metadata"
)

const (
	defaultPath             = "/ws"
	defaultHandshakeTimeout = 10 * time.Second
)

type metadata struct {
	host              string
	path              string
	handshakeTimeout  time.Duration
	readBufferSize    int
	writeBufferSize   int
	enableCompression bool
	header            http.Header
}

func (h *wsHandshaker) parseMetadata(mdata md.Metadata) (err error) {
	const (
		host              = "host"
		path              = "path"
		handshakeTimeout  = "handshakeTimeout"
		readBufferSize    = "readBufferSize"
		writeBufferSize   = "writeBufferSize"
		enableCompression = "enableCompression"
		header            = "header"
	)

	h.md.host = mdata.GetString(host)
	h.md.path = mdata.GetString(path)
	if h.md.path == "" {
		h.md.path = defaultPath
	}

	h.md.handshakeTimeout = mdata.GetDuration(handshakeTimeout)
	if h.md.handshakeTimeout <= 0 {
		h.md.handshakeTimeout = defaultHandshakeTimeout
	}

	h.md.readBufferSize = mdata.GetInt(readBufferSize)
	h.md.writeBufferSize = mdata.GetInt(writeBufferSize)
	h.md.enableCompression = mdata.GetBool(enableCompression)

	if m, _ := mdata.Get(header).(map[string]any); len(m) > 0 {
		hd := http.Header{}
		for k, v := range m {
			if s, ok := v.(string); ok {
				hd.Set(k, s)
			}
		}
		h.md.header = hd
	}

	return
}
