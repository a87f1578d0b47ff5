// Package httpds fetches bounded prefixes of HTTP(S) resources.
//
// Sampling must stay bounded in memory and time regardless of how large the
// remote file is, so the client sends a Range request as a hint and enforces
// the byte limit on the reader either way (many servers ignore Range).
package httpds

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config controls client behavior.
type Config struct {
	// InsecureSkipVerify disables TLS certificate verification. Useful for
	// self-signed internal endpoints; prefer false in production.
	InsecureSkipVerify bool

	// Timeout bounds the whole request. Zero means 30 seconds.
	Timeout time.Duration
}

// Client fetches byte prefixes over HTTP(S).
type Client struct {
	hc *http.Client
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	tr := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		tr = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{hc: &http.Client{Transport: tr, Timeout: timeout}}
}

// FetchFirstBytes returns at most n bytes from the start of the resource.
//
// Both 200 and 206 responses are accepted; anything else is an error. The
// result may be shorter than n when the resource is.
func (c *Client) FetchFirstBytes(ctx context.Context, url string, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fetch first bytes: n must be > 0")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, int64(n))); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return buf.Bytes(), nil
}
