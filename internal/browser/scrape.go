// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"log"
	"time"
)

// Scrape retry knobs; tests shrink these.
var (
	scrapeRetryBase = 2 * time.Second
	scrapeRetryMax  = 10 * time.Second
)

const scrapeAttempts = 3

// withRetry runs fn up to scrapeAttempts times with exponential
// backoff between failures.
func withRetry(ctx context.Context, what string, fn func() error) error {
	delay := scrapeRetryBase
	var lastErr error

	for attempt := 1; attempt <= scrapeAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == scrapeAttempts {
			break
		}
		log.Printf("browser: %s attempt %d failed, retrying in %s: %v", what, attempt, delay, lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > scrapeRetryMax {
			delay = scrapeRetryMax
		}
	}
	return lastErr
}
