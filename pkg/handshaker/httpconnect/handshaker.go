// Package httpconnect tunnels a connection through an HTTP proxy with a
// CONNECT request. It runs as the first step of a handshake pipeline when
// the attempt goes through a forward proxy.
package httpconnect

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-trunk/trunk/pkg/handshaker"
	"github.com/go-trunk/trunk/pkg/logger"
	md "github.com/go-trunk/trunk/pkg/metadata"
	"github.com/go-trunk/trunk/pkg/registry"
)

// ErrNoAuthority is reported when neither the metadata nor the handshake
// options name the endpoint to tunnel to.
var ErrNoAuthority = errors.New("httpconnect: no authority")

func init() {
	registry.HandshakerRegistry().Register("http", NewHandshaker)
}

type httpConnectHandshaker struct {
	md     metadata
	logger logger.Logger
}

func NewHandshaker(opts ...handshaker.Option) handshaker.Handshaker {
	options := &handshaker.Options{}
	for _, opt := range opts {
		opt(options)
	}

	log := options.Logger
	if log == nil {
		log = logger.Default()
	}
	return &httpConnectHandshaker{
		logger: log,
	}
}

func (h *httpConnectHandshaker) Init(mdata md.Metadata) (err error) {
	return h.parseMetadata(mdata)
}

// Handshake issues CONNECT for the authority and waits for a 2xx reply.
// Response bytes the reader buffered past the header block are returned as
// leftover. The authority falls back to the per-attempt address when the
// metadata names none.
func (h *httpConnectHandshaker) Handshake(ctx context.Context, conn net.Conn, mdata md.Metadata, opts ...handshaker.HandshakeOption) (*handshaker.Result, error) {
	options := &handshaker.HandshakeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	authority := h.md.authority
	if authority == "" {
		authority = options.Addr
	}
	if authority == "" {
		return nil, ErrNoAuthority
	}

	log := h.logger.WithFields(map[string]any{
		"proxy":     h.md.proxy,
		"authority": authority,
	})

	if h.md.timeout > 0 {
		conn.SetDeadline(time.Now().Add(h.md.timeout))
		defer conn.SetDeadline(time.Time{})
	}

	req := &http.Request{
		Method:     http.MethodConnect,
		URL:        &url.URL{Host: authority},
		Host:       authority,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header),
	}
	req.Header.Set("Proxy-Connection", "keep-alive")
	for k := range h.md.header {
		req.Header.Set(k, h.md.header.Get(k))
	}

	if h.md.user != nil {
		u := h.md.user.Username()
		p, _ := h.md.user.Password()
		req.Header.Set("Proxy-Authorization",
			"Basic "+base64.StdEncoding.EncodeToString([]byte(u+":"+p)))
	}

	req = req.WithContext(ctx)
	if log.IsLevelEnabled(logger.DebugLevel) {
		dump, _ := httputil.DumpRequest(req, false)
		log.Debug(string(dump))
	}

	if err := req.Write(conn); err != nil {
		return nil, err
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if log.IsLevelEnabled(logger.DebugLevel) {
		dump, _ := httputil.DumpResponse(resp, false)
		log.Debug(string(dump))
	}

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("httpconnect: proxy refused tunnel: %s", resp.Status)
	}
	log.Debugf("tunnel to %s established", authority)

	var leftover []byte
	if n := br.Buffered(); n > 0 {
		leftover = make([]byte, n)
		if _, err := io.ReadFull(br, leftover); err != nil {
			return nil, err
		}
	}

	return &handshaker.Result{
		Conn:     conn,
		Leftover: leftover,
	}, nil
}
