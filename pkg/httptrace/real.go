package httptrace

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// credential is a stored basic-auth pair for one host.
type credential struct {
	username string
	password string
}

// RealClient owns an *http.Client with a dedicated transport and implements
// the full Client surface. All connection handling, TLS, and redirect policy
// is the stdlib client's; RealClient only layers credential bookkeeping and
// a user agent on top.
type RealClient struct {
	mu        sync.RWMutex
	hc        *http.Client
	transport *http.Transport
	userAgent string
	creds     map[string]credential
	proxyURL  *url.URL
	proxyAuth *credential
}

// NewRealClient creates a client with a cloned default transport, so per-client
// configuration never leaks into http.DefaultTransport.
func NewRealClient() *RealClient {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	return &RealClient{
		hc:        &http.Client{Transport: tr},
		transport: tr,
		creds:     make(map[string]credential),
	}
}

// Do issues the request after applying the configured user agent and any
// credential registered for the request's host.
func (c *RealClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.RLock()
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("Authorization") == "" {
		if cred, ok := c.creds[req.URL.Host]; ok {
			req.SetBasicAuth(cred.username, cred.password)
		}
	}
	c.mu.RUnlock()
	return c.hc.Do(req)
}

// OpenURL builds and issues a request by method and URL.
func (c *RealClient) OpenURL(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Open issues a request by method, host, port, and path over plain HTTP.
func (c *RealClient) Open(ctx context.Context, method, host string, port int, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.OpenURL(ctx, method, fmt.Sprintf("http://%s:%d%s", host, port, path), nil)
}

// Get issues a GET for the URL.
func (c *RealClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.OpenURL(ctx, http.MethodGet, rawURL, nil)
}

// Head issues a HEAD for the URL.
func (c *RealClient) Head(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.OpenURL(ctx, http.MethodHead, rawURL, nil)
}

// Post issues a POST with the given content type and body.
func (c *RealClient) Post(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// PostForm issues a POST with URL-encoded form data.
func (c *RealClient) PostForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	return c.Post(ctx, rawURL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

// Put issues a PUT with the given content type and body.
func (c *RealClient) Put(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	return c.withBody(ctx, http.MethodPut, rawURL, contentType, body)
}

// Patch issues a PATCH with the given content type and body.
func (c *RealClient) Patch(ctx context.Context, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	return c.withBody(ctx, http.MethodPatch, rawURL, contentType, body)
}

// Delete issues a DELETE for the URL.
func (c *RealClient) Delete(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.OpenURL(ctx, http.MethodDelete, rawURL, nil)
}

func (c *RealClient) withBody(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.Do(req)
}

// SetBasicAuth registers basic-auth credentials applied to requests for host
// (host:port as it appears in the URL) that carry no Authorization header.
func (c *RealClient) SetBasicAuth(host, username, password string) {
	c.mu.Lock()
	c.creds[host] = credential{username: username, password: password}
	c.mu.Unlock()
}

// SetProxyURL routes requests through the given proxy. An empty URL restores
// environment-based proxy selection.
func (c *RealClient) SetProxyURL(rawURL string) error {
	if rawURL == "" {
		c.mu.Lock()
		c.proxyURL = nil
		c.transport.Proxy = http.ProxyFromEnvironment
		c.mu.Unlock()
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("httptrace: parse proxy URL: %w", err)
	}
	c.mu.Lock()
	c.proxyURL = u
	c.applyProxyLocked()
	c.mu.Unlock()
	return nil
}

// SetProxyAuth attaches credentials to the configured proxy URL. The
// credentials are remembered and applied if the proxy is set later.
func (c *RealClient) SetProxyAuth(username, password string) {
	c.mu.Lock()
	c.proxyAuth = &credential{username: username, password: password}
	c.applyProxyLocked()
	c.mu.Unlock()
}

func (c *RealClient) applyProxyLocked() {
	if c.proxyURL == nil {
		return
	}
	u := *c.proxyURL
	if c.proxyAuth != nil {
		u.User = url.UserPassword(c.proxyAuth.username, c.proxyAuth.password)
	}
	c.transport.Proxy = http.ProxyURL(&u)
}

// SetTLSClientConfig replaces the transport's TLS configuration, the hook for
// certificate validation callbacks.
func (c *RealClient) SetTLSClientConfig(cfg *tls.Config) {
	c.mu.Lock()
	c.transport.TLSClientConfig = cfg
	c.mu.Unlock()
}

// SetTimeout sets the whole-request timeout.
func (c *RealClient) SetTimeout(d time.Duration) {
	c.mu.Lock()
	c.hc.Timeout = d
	c.mu.Unlock()
}

// SetIdleConnTimeout sets how long idle connections are kept open.
func (c *RealClient) SetIdleConnTimeout(d time.Duration) {
	c.mu.Lock()
	c.transport.IdleConnTimeout = d
	c.mu.Unlock()
}

// SetMaxConnsPerHost limits connections per host (0 means no limit).
func (c *RealClient) SetMaxConnsPerHost(n int) {
	c.mu.Lock()
	c.transport.MaxConnsPerHost = n
	c.mu.Unlock()
}

// SetUserAgent sets the User-Agent applied to requests without one.
func (c *RealClient) SetUserAgent(ua string) {
	c.mu.Lock()
	c.userAgent = ua
	c.mu.Unlock()
}

// SetCheckRedirect replaces the redirect policy.
func (c *RealClient) SetCheckRedirect(fn func(req *http.Request, via []*http.Request) error) {
	c.mu.Lock()
	c.hc.CheckRedirect = fn
	c.mu.Unlock()
}

// SetCookieJar replaces the client's cookie jar.
func (c *RealClient) SetCookieJar(jar http.CookieJar) {
	c.mu.Lock()
	c.hc.Jar = jar
	c.mu.Unlock()
}

// CloseIdleConnections closes idle connections held by the transport.
func (c *RealClient) CloseIdleConnections() {
	c.transport.CloseIdleConnections()
}

// Close releases the client's connections. The stdlib client has no further
// teardown, so Close and CloseIdleConnections coincide.
func (c *RealClient) Close() {
	c.CloseIdleConnections()
}
