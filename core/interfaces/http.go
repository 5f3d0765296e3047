// ABOUTME: Outbound HTTP contract used by the analytics client
// ABOUTME: Keeps net/http out of the core and lets tests swap in fakes

package interfaces

import (
	"context"
	"io"
)

// HTTPClient issues the GET queries sent to the analytics server
type HTTPClient interface {
	Get(ctx context.Context, url string) (Response, error)
}

// Response is the part of an HTTP response the analytics client reads.
// Callers close Body.
type Response interface {
	StatusCode() int
	Body() io.ReadCloser
	Header(key string) string
}
