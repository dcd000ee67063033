package httptrace

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tracelight/tracelight/pkg/registry"
)

// Lifecycle markers carried in instrumentation entries.
const (
	markerOpen     = "open"
	markerReady    = "request ready"
	markerComplete = "request complete"
	markerError    = "request error"
)

// LoggingClient is the instrumentation proxy. It owns a RealClient built
// directly through NewRealClient (never through a Factory, so inner
// construction cannot recurse into interception) and forwards every
// operation; the URL-based issuance path additionally emits open, ready, and
// complete entries on the http channel correlated by a per-client sequence
// id. Instrumentation is a pure observer: the response the caller sees is
// the real client's, byte for byte.
type LoggingClient struct {
	reg   *registry.Registry
	inner *RealClient
	seq   atomic.Int64
}

// NewLoggingClient creates a logging proxy around a fresh real client. The
// first instrumented request gets sequence id 1.
func NewLoggingClient(reg *registry.Registry) *LoggingClient {
	return &LoggingClient{reg: reg, inner: NewRealClient()}
}

// Do issues an already-built request through the instrumented path.
func (c *LoggingClient) Do(req *http.Request) (*http.Response, error) {
	return c.roundTrip(req)
}

// OpenURL issues a request by method and URL through the instrumented path.
func (c *LoggingClient) OpenURL(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(req)
}

// roundTrip is the instrumented issuance path: "open" before delegation,
// "request ready" once the response (headers) is available, "request
// complete" once the body has been fully consumed or closed, and "request
// error" as a terminal entry when delegation fails.
func (c *LoggingClient) roundTrip(req *http.Request) (*http.Response, error) {
	id := c.seq.Add(1)
	method := req.Method
	uri := req.URL.String()

	c.emit(markerOpen, id, method, uri, slog.LevelInfo, nil)

	resp, err := c.inner.Do(req)
	if err != nil {
		c.emit(markerError, id, method, uri, slog.LevelWarn, map[string]any{"error": err.Error()})
		return resp, err
	}

	c.emit(markerReady, id, method, uri, slog.LevelInfo, nil)

	// Capture everything the completion entry needs now; the body wrapper
	// fires later, possibly after the caller has mutated the response.
	completeData := map[string]any{
		"statusCode":    resp.StatusCode,
		"reasonPhrase":  http.StatusText(resp.StatusCode),
		"contentLength": resp.ContentLength,
		"headers":       flattenHeaders(resp.Header),
	}
	resp.Body = &completionBody{
		inner: resp.Body,
		complete: func() {
			c.emit(markerComplete, id, method, uri, slog.LevelInfo, completeData)
		},
	}
	return resp, nil
}

func (c *LoggingClient) emit(marker string, id int64, method, uri string, level slog.Level, extra map[string]any) {
	err := c.reg.Log(ChannelName, &registry.LogInput{
		Message: func() any {
			return fmt.Sprintf("[%d] %s %s - %s", id, method, uri, marker)
		},
		Data: func() any {
			data := map[string]any{"id": id, "method": method, "uri": uri, "event": marker}
			for k, v := range extra {
				data[k] = v
			}
			return data
		},
		Level: level,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("httptrace:logging - emit %s entry: %v", marker, err))
	}
}

// notice emits the low-detail diagnostic for forwarded operations that are
// not separately instrumented.
func (c *LoggingClient) notice(op string) {
	_ = c.reg.Log(ChannelName, &registry.LogInput{
		Message: func() any { return "not yet instrumented: " + op },
		Level:   slog.LevelDebug,
	})
}

// flattenHeaders joins multi-valued headers into a name to comma-joined
// values mapping.
func flattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for name, values := range h {
		flat[name] = strings.Join(values, ",")
	}
	return flat
}

// completionBody fires complete exactly once, on full consumption or Close,
// whichever comes first. Reads pass straight through.
type completionBody struct {
	inner    io.ReadCloser
	once     sync.Once
	complete func()
}

func (b *completionBody) Read(p []byte) (int, error) {
	n, err := b.inner.Read(p)
	if err == io.EOF {
		b.once.Do(b.complete)
	}
	return n, err
}

func (b *completionBody) Close() error {
	err := b.inner.Close()
	b.once.Do(b.complete)
	return err
}

// Open issues by host+port+path. Not separately instrumented: a notice entry
// is emitted and the call forwards unchanged.
func (c *LoggingClient) Open(ctx context.Context, method, host string, port int, path string) (*http.Response, error) {
	c.notice("Open (by host, port, path)")
	return c.inner.Open(ctx, method, host, port, path)
}

// PostForm forwards unchanged after a notice entry.
func (c *LoggingClient) PostForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	c.notice("PostForm")
	return c.inner.PostForm(ctx, rawURL, form)
}

// Get issues a GET through the instrumented path.
func (c *LoggingClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.OpenURL(ctx, http.MethodGet, rawURL, nil)
}

// Head issues a HEAD through the instrumented path.
func (c *LoggingClient) Head(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.OpenURL(ctx, http.MethodHead, rawURL, nil)
}

// Post issues a POST through the instrumented path.
func (c *LoggingClient) Post(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.roundTrip(req)
}

// Put issues a PUT through the instrumented path.
func (c *LoggingClient) Put(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	return c.instrumentedWithBody(ctx, http.MethodPut, rawURL, contentType, body)
}

// Patch issues a PATCH through the instrumented path.
func (c *LoggingClient) Patch(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	return c.instrumentedWithBody(ctx, http.MethodPatch, rawURL, contentType, body)
}

// Delete issues a DELETE through the instrumented path.
func (c *LoggingClient) Delete(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.OpenURL(ctx, http.MethodDelete, rawURL, nil)
}

func (c *LoggingClient) instrumentedWithBody(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.roundTrip(req)
}

// Configuration and teardown forward unmodified to the real client.

func (c *LoggingClient) SetBasicAuth(host, username, password string) {
	c.inner.SetBasicAuth(host, username, password)
}

func (c *LoggingClient) SetProxyURL(rawURL string) error {
	return c.inner.SetProxyURL(rawURL)
}

func (c *LoggingClient) SetProxyAuth(username, password string) {
	c.inner.SetProxyAuth(username, password)
}

func (c *LoggingClient) SetTLSClientConfig(cfg *tls.Config) {
	c.inner.SetTLSClientConfig(cfg)
}

func (c *LoggingClient) SetTimeout(d time.Duration) {
	c.inner.SetTimeout(d)
}

func (c *LoggingClient) SetIdleConnTimeout(d time.Duration) {
	c.inner.SetIdleConnTimeout(d)
}

func (c *LoggingClient) SetMaxConnsPerHost(n int) {
	c.inner.SetMaxConnsPerHost(n)
}

func (c *LoggingClient) SetUserAgent(ua string) {
	c.inner.SetUserAgent(ua)
}

func (c *LoggingClient) SetCheckRedirect(fn func(req *http.Request, via []*http.Request) error) {
	c.inner.SetCheckRedirect(fn)
}

func (c *LoggingClient) SetCookieJar(jar http.CookieJar) {
	c.inner.SetCookieJar(jar)
}

func (c *LoggingClient) CloseIdleConnections() {
	c.inner.CloseIdleConnections()
}

func (c *LoggingClient) Close() {
	c.inner.Close()
}
