package crateshttp

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"golang.org/x/net/http2"
)

// TransportConfig configures the HTTP transport with protocol support.
type TransportConfig struct {
	// DialTimeout bounds establishing a TCP connection.
	DialTimeout time.Duration

	// TLSConfig optionally overrides the TLS client configuration.
	TLSConfig *tls.Config

	// EnableHTTP2 enables HTTP/2 via ALPN negotiation (default: true).
	EnableHTTP2 bool

	// EnableHTTP3 enables HTTP/3 with HTTP/1.1 fallback (default: false,
	// experimental).
	EnableHTTP3 bool

	// MaxIdleConns controls the maximum number of idle connections.
	MaxIdleConns int

	// MaxIdleConnsPerHost controls idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is the maximum time an idle connection stays open.
	IdleConnTimeout time.Duration

	// TLSHandshakeTimeout is the maximum time for a TLS handshake.
	TLSHandshakeTimeout time.Duration

	// ResponseHeaderTimeout is the maximum time to wait for response headers.
	ResponseHeaderTimeout time.Duration
}

// DefaultTransportConfig returns default transport configuration.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		DialTimeout:           DefaultDialTimeout,
		EnableHTTP2:           true,
		EnableHTTP3:           false,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
}

// NewTransport creates an HTTP transport with configured protocol support.
func NewTransport(config TransportConfig) http.RoundTripper {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		TLSClientConfig:       config.TLSConfig,
	}

	if config.EnableHTTP2 {
		// Errors here mean the transport stays on HTTP/1.1, which is
		// still a working client.
		_ = http2.ConfigureTransport(transport)
	}

	if config.EnableHTTP3 {
		return newHTTP3Transport(transport)
	}

	return transport
}

// http3Transport tries HTTP/3 first and falls back to the wrapped
// HTTP/1.1 or HTTP/2 transport.
type http3Transport struct {
	fallback http.RoundTripper
	h3       *http3.Transport
}

func newHTTP3Transport(fallback http.RoundTripper) *http3Transport {
	return &http3Transport{
		fallback: fallback,
		h3: &http3.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			QUICConfig: &quic.Config{
				Allow0RTT: true,
			},
		},
	}
}

// RoundTrip implements http.RoundTripper with HTTP/3 fallback.
func (t *http3Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme == "https" {
		resp, err := t.h3.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
	}

	return t.fallback.RoundTrip(req)
}

// Close closes the HTTP/3 transport.
func (t *http3Transport) Close() error {
	return t.h3.Close()
}

// ProtocolVersion returns the HTTP protocol version of a response.
func ProtocolVersion(resp *http.Response) string {
	switch resp.ProtoMajor {
	case 3:
		return "HTTP/3"
	case 2:
		return "HTTP/2"
	default:
		return "HTTP/1.1"
	}
}
