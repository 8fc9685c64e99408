// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the fetchers.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay is the starting backoff duration. Tests override this
// to avoid real sleeps.
var RetryBaseDelay = 5 * time.Second

// RetryMaxDelay caps the backoff between attempts.
var RetryMaxDelay = 30 * time.Second

const defaultMaxRetries = 4

// Transient reports whether an HTTP status code is worth retrying:
// 429 and all 5xx responses. Parse and validation failures never pass
// through here; they are surfaced immediately by the callers.
func Transient(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// DoWithRetry executes the request and retries transient failures
// (connection errors, HTTP 429, HTTP 5xx) with exponential backoff.
// The delay starts at RetryBaseDelay and doubles per attempt up to
// RetryMaxDelay. When maxRetries is 0 the default (4) is used.
//
// Non-transient responses are returned as-is for the caller to inspect.
// After exhausting retries the last transient response (or the last
// connection error) is returned. A context cancelled during a backoff
// wait returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	delay := RetryBaseDelay
	var lastErr error

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !Transient(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = nil
			if attempt >= maxRetries {
				return resp, nil
			}
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if attempt >= maxRetries {
			return nil, lastErr
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > RetryMaxDelay {
			delay = RetryMaxDelay
		}
	}
}
