// Package httptrace provides a drop-in HTTP client whose request lifecycle is
// logged through the channel registry. The logging client presents the same
// operation surface as the real client and forwards everything to an owned
// real instance; only URL-based request issuance is instrumented.
package httptrace

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tracelight/tracelight/pkg/registry"
)

// ChannelName is the logging channel all HTTP instrumentation emits on.
const ChannelName = "http"

const channelDescription = "HTTP client traffic"

// RegisterChannel registers the HTTP channel (disabled) with the registry.
func RegisterChannel(reg *registry.Registry) error {
	return reg.Register(ChannelName, channelDescription)
}

// Client is the operation surface shared by the real client and the logging
// proxy. Application code programs against this interface and obtains
// instances from a Factory, so instrumentation can be swapped in without any
// caller changing its HTTP code.
type Client interface {
	// Do issues an already-built request.
	Do(req *http.Request) (*http.Response, error)

	// OpenURL issues a request by method and URL. All the URL-based verb
	// helpers funnel through it.
	OpenURL(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error)

	// Open issues a request by method, host, port, and path over plain HTTP.
	Open(ctx context.Context, method, host string, port int, path string) (*http.Response, error)

	Get(ctx context.Context, rawURL string) (*http.Response, error)
	Head(ctx context.Context, rawURL string) (*http.Response, error)
	Post(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error)
	PostForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error)
	Put(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error)
	Patch(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error)
	Delete(ctx context.Context, rawURL string) (*http.Response, error)

	// Credential and transport configuration, forwarded unmodified by the
	// logging proxy.
	SetBasicAuth(host, username, password string)
	SetProxyURL(rawURL string) error
	SetProxyAuth(username, password string)
	SetTLSClientConfig(cfg *tls.Config)
	SetTimeout(d time.Duration)
	SetIdleConnTimeout(d time.Duration)
	SetMaxConnsPerHost(n int)
	SetUserAgent(ua string)
	SetCheckRedirect(fn func(req *http.Request, via []*http.Request) error)
	SetCookieJar(jar http.CookieJar)

	CloseIdleConnections()
	Close()
}
