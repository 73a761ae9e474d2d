package network

import (
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// DefaultTimeout bounds connecting, the TLS handshake and waiting
// for response headers.
const DefaultTimeout = 2000 * time.Millisecond

// NewTransport returns the round tripper used by the checker: gzip
// handling in front of an HTTP/2 capable transport. Probes go out
// directly, never through a proxy. The standard transport gzip
// support is disabled so encodings stay visible.
func NewTransport(timeout time.Duration, logger zerolog.Logger) http.RoundTripper {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	base := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          2,
		DisableCompression:    true,
	}

	if err := http2.ConfigureTransport(base); err != nil {
		logger.Warn().Err(err).Msg("HTTP/2 not available, using HTTP/1.1 only")
	}

	return &gzipRequest{next: &gzipResponse{next: base}}
}

// NewClient wraps NewTransport. The client timeout caps the full
// exchange at three times the per phase timeout.
func NewClient(timeout time.Duration, logger zerolog.Logger) *http.Client {
	return &http.Client{
		Transport: NewTransport(timeout, logger),
		Timeout:   3 * timeout,
	}
}
