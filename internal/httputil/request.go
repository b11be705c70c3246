// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the lookup and batch
// stages: request construction and inter-request pacing.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// NewClient returns an HTTP client with the given timeout. A zero
// timeout leaves the client without one.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// NewRequest builds a GET request bound to ctx with the User-Agent set.
func NewRequest(ctx context.Context, url, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return req, nil
}
