// Package httpx centralizes HTTP client construction so transport defaults
// are defined once.
package httpx

import (
	"net/http"
	"time"
)

// NewDefault returns a client with the given overall request timeout.
// Per-request deadlines still come from the caller's context.
func NewDefault(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
