package transport

import (
	"context"
	"net/http"
)

// Doer executes HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Poster sends a rendered request and returns the raw response text.
// Implemented by Transport.
type Poster interface {
	Post(ctx context.Context, body string) (string, error)
}

var (
	_ Doer   = (*http.Client)(nil)
	_ Poster = (*Transport)(nil)
)
