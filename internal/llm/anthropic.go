// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// AnthropicBackend talks to the Anthropic Messages API directly.
type AnthropicBackend struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// NewAnthropicBackend builds a backend for the provider settings.
func NewAnthropicBackend(cfg types.ProviderSettings, apiKey string) *AnthropicBackend {
	return &AnthropicBackend{
		APIKey:  apiKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Client:  &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type anthropicContentBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

// Chat sends one Messages API request. Thinking blocks in the reply
// are dropped; the remaining text blocks are joined.
func (b *AnthropicBackend) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var content any = req.Prompt
	if len(req.Attachment) > 0 {
		// PDFs travel as document blocks, images as image blocks.
		blockType := "image"
		if !strings.HasPrefix(req.AttachmentMIME, "image/") {
			blockType = "document"
		}
		content = []anthropicContentBlock{
			{Type: blockType, Source: &anthropicSource{
				Type:      "base64",
				MediaType: req.AttachmentMIME,
				Data:      base64.StdEncoding.EncodeToString(req.Attachment),
			}},
			{Type: "text", Text: req.Prompt},
		}
	}

	reqBody := anthropicRequest{
		Model:       b.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: content}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", b.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return ChatResponse{}, fmt.Errorf("Anthropic API returned %d: %s", resp.StatusCode, string(body))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return ChatResponse{}, fmt.Errorf("decoding Anthropic response: %w", err)
	}

	var parts []string
	for _, block := range aResp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return ChatResponse{}, fmt.Errorf("no text content in Anthropic response")
	}

	return ChatResponse{Content: strings.Join(parts, "\n"), Model: b.Model}, nil
}
