package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/muurk/mmprobe/internal/lifecycle"
	"github.com/muurk/mmprobe/internal/version"
)

const (
	// DefaultBaseURL is the server address used when nothing else is configured
	DefaultBaseURL = "http://localhost:8065"

	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 64 << 10
)

// DefaultUserAgent identifies mmprobe to the server.
var DefaultUserAgent = "mmprobe/" + version.Version

// Ensure Client implements lifecycle.Transport at compile time.
var _ lifecycle.Transport = (*Client)(nil)

// Client talks to the Mattermost HTTP API.
//
// The client itself sets no request timeout: the caller's context bounds
// each request, so a disabled timeout really does leave a request pending.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for the server at baseURL. A bare host:port gets
// an http:// scheme. A path prefix such as /mattermost is kept; query and
// fragment are dropped.
func NewClient(baseURL string) (*Client, error) {
	base, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: DefaultUserAgent,
	}, nil
}

// BaseURL returns the normalised server URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Endpoint joins an API path onto the base URL, keeping any path prefix.
func (c *Client) Endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// SetUserAgent overrides the User-Agent header. Empty restores the default.
func (c *Client) SetUserAgent(ua string) {
	if strings.TrimSpace(ua) == "" {
		ua = DefaultUserAgent
	}
	c.userAgent = ua
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.http = hc
	}
}

// Submit performs req and decodes a successful response body into dest.
func (c *Client) Submit(ctx context.Context, req lifecycle.Request, dest any) error {
	if c == nil {
		return NewBuildError("client is nil", nil)
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return NewBuildError("encode request body", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return NewBuildError("create request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ClassifyNetworkError(err, req.URL)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return NewHTTPError(req.Method, req.URL, resp.StatusCode, data)
	}
	if dest == nil {
		return nil
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if ctx.Err() != nil {
			return ClassifyNetworkError(ctx.Err(), req.URL)
		}
		return NewParseError(req.URL, err)
	}
	return nil
}

// ParseBaseURL normalises a server address into a base URL.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, NewBuildError(fmt.Sprintf("parse server url %q", raw), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, NewBuildError(fmt.Sprintf("server url %q: unsupported scheme %q", raw, u.Scheme), nil)
	}
	if u.Host == "" {
		return nil, NewBuildError(fmt.Sprintf("server url %q has no host", raw), nil)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func decodeJSON(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}
