// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// OpenAIBackend talks to any OpenAI-compatible chat completion API
// (OpenAI itself, SiliconFlow, DeepSeek, local gateways).
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend builds a backend for the provider settings.
func NewOpenAIBackend(cfg types.ProviderSettings, apiKey string) *OpenAIBackend {
	return &OpenAIBackend{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithRequestTimeout(cfg.HTTPTimeout()),
		),
		model: cfg.Model,
	}
}

// Chat sends one completion request.
func (b *OpenAIBackend) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	if len(req.Attachment) > 0 {
		dataURL := "data:" + req.AttachmentMIME + ";base64," + base64.StdEncoding.EncodeToString(req.Attachment)
		messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.Prompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		}))
	} else {
		messages = append(messages, openai.UserMessage(req.Prompt))
	}

	params := openai.ChatCompletionNewParams{
		Model:       b.model,
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return ChatResponse{}, fmt.Errorf("empty completion from %s", b.model)
	}

	return ChatResponse{Content: resp.Choices[0].Message.Content, Model: b.model}, nil
}
