// Package sample acquires and normalizes bounded text samples for sniffing.
//
// A sample is the first N bytes of a local file or HTTP(S) resource. Before
// sniffing, the raw bytes are normalized to UTF-8 (BOM stripping, UTF-16
// decoding, Windows-1252 fallback) and cut back to the last line boundary so
// a half-line record at the end cannot skew inference.
package sample

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"csvsniff/internal/datasource/file"
	"csvsniff/internal/datasource/httpds"
)

// peekFn is the overridable seam used to fetch the first n bytes of a source.
// In production it is backed by the file source for local paths and the
// httpds client for HTTP(S) URLs. Tests replace it to avoid real I/O.
var peekFn = func(ctx context.Context, url string, n int, insecure bool) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("peek: n must be > 0")
	}

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		client := httpds.NewClient(httpds.Config{InsecureSkipVerify: insecure})
		return client.FetchFirstBytes(ctx, url, n)
	}

	path := strings.TrimPrefix(url, "file://")
	src := file.NewLocal(path)
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lr := &io.LimitedReader{R: rc, N: int64(n)}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, lr); err != nil && err != io.EOF {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Peek fetches the first n bytes of url. Local paths may be given bare or as
// file:// URLs.
func Peek(ctx context.Context, url string, n int, insecure bool) ([]byte, error) {
	return peekFn(ctx, url, n, insecure)
}

// CutTail trims the sample back to just past its last line terminator
// character, dropping any half-line record left by the byte cutoff. Samples
// with no terminator are returned unchanged; the sniffer rejects those
// itself.
func CutTail(b []byte) []byte {
	i := bytes.LastIndexAny(b, "\r\n")
	if i < 0 {
		return b
	}
	return b[:i+1]
}
