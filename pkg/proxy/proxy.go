package proxy

import (
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// Func reports the forward proxy to tunnel through when connecting to
// target, a host:port pair. ok is false when the connection should go
// direct.
type Func func(target string) (addr string, ok bool)

// FromEnvironment returns a lookup backed by the HTTP_PROXY, HTTPS_PROXY
// and NO_PROXY variables (and their lowercase forms). The environment is
// read once, at call time.
func FromEnvironment() Func {
	proxyForURL := httpproxy.FromEnvironment().ProxyFunc()
	return func(target string) (string, bool) {
		u, err := proxyForURL(&url.URL{Scheme: "http", Host: target})
		if err != nil || u == nil {
			return "", false
		}
		return u.Host, true
	}
}

// Static returns a lookup that routes every target through addr.
func Static(addr string) Func {
	return func(string) (string, bool) {
		return addr, addr != ""
	}
}

// None returns a lookup that never proxies.
func None() Func {
	return func(string) (string, bool) {
		return "", false
	}
}
