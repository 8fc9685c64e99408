// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm generates academic summaries through OpenAI-compatible
// and Anthropic chat APIs, with separate provider settings for text
// and vision requests.
package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// ChatRequest is one model invocation. Attachment, when set, adds a
// binary part to the user turn for multimodal models; AttachmentMIME
// names its media type ("image/png", "application/pdf").
type ChatRequest struct {
	System         string
	Prompt         string
	Attachment     []byte
	AttachmentMIME string
	Temperature    float64
	MaxTokens      int
}

// ChatResponse is the model's reply.
type ChatResponse struct {
	Content string
	Model   string
}

// Backend abstracts a chat completion API so tests can supply a mock.
type Backend interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// chatWithRetry calls the backend with exponential backoff.
func chatWithRetry(ctx context.Context, backend Backend, req ChatRequest, maxRetries int) (ChatResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return ChatResponse{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := backend.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return ChatResponse{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
