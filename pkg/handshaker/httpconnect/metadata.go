package httpconnect

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/go-trunk/trunk/pkg/metadata"
)

const (
	defaultTimeout = 10 * time.Second
)

type metadata struct {
	proxy     string
	authority string
	user      *url.Userinfo
	header    http.Header
	timeout   time.Duration
}

func (h *httpConnectHandshaker) parseMetadata(mdata md.Metadata) (err error) {
	const (
		proxy     = "proxy"
		authority = "authority"
		user      = "user"
		header    = "header"
		timeout   = "timeout"
	)

	h.md.proxy = mdata.GetString(proxy)
	h.md.authority = mdata.GetString(authority)

	h.md.timeout = mdata.GetDuration(timeout)
	if h.md.timeout <= 0 {
		h.md.timeout = defaultTimeout
	}

	if s := mdata.GetString(user); s != "" {
		us := strings.SplitN(s, ":", 2)
		if len(us) == 1 {
			h.md.user = url.User(us[0])
		} else {
			h.md.user = url.UserPassword(us[0], us[1])
		}
	}

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
