// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// ErrNoAPIKey is returned by New when no key could be resolved.
var ErrNoAPIKey = errors.New("API key not configured: set {PROVIDER}_API_KEY or add a .secrets entry")

// defaultImagePrompt asks for a full description of figures, formulas
// and results visible in the image.
const defaultImagePrompt = "请详细分析这张图片中的内容，包括图表、公式、实验结果等所有可见信息。"

// pdfDigestPrompt asks for a structured digest of the whole document.
const pdfDigestPrompt = "请阅读这篇论文，提取其摘要、引言要点、方法细节和结论，输出一份结构化的中文摘要。"

// Client routes text requests to the text provider and image requests
// to the vision provider, both authenticated with the same key.
type Client struct {
	cfg      *types.Config
	text     Backend
	vl       Backend
	renderer *Renderer
}

// New builds a Client from the loaded configuration. It fails fast
// when no API key is configured rather than surfacing auth errors
// mid-pipeline.
func New(cfg *types.Config) (*Client, error) {
	key := cfg.API.APIKey
	if key == "" {
		return nil, ErrNoAPIKey
	}

	return &Client{
		cfg:      cfg,
		text:     newBackend(cfg.API.Text, key),
		vl:       newBackend(cfg.API.VL, key),
		renderer: NewRenderer(cfg.Paths.TemplatesDir),
	}, nil
}

// newBackend selects the wire protocol by provider name; everything
// that is not Anthropic speaks the OpenAI chat completion shape.
func newBackend(p types.ProviderSettings, key string) Backend {
	if p.Provider == "anthropic" {
		return NewAnthropicBackend(p, key)
	}
	return NewOpenAIBackend(p, key)
}

// Chat sends a text request to the text provider, retrying failures
// per the configured budget. Zero temperature and token values fall
// back to the summary settings.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if req.Temperature == 0 {
		req.Temperature = c.cfg.Summary.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.cfg.Summary.MaxTokens
	}
	return chatWithRetry(ctx, c.text, req, c.cfg.Summary.MaxRetries)
}

// SummaryInput carries the collected paper material into prompt
// rendering. Empty fields are replaced by explicit placeholders so the
// model sees "not provided" rather than a blank section.
type SummaryInput struct {
	PaperID      string
	Title        string
	Authors      string
	Abstract     string
	KimiSummary  string
	LocalComment string
	PDFSummary   string
}

func (in SummaryInput) promptData() promptData {
	return promptData{
		PaperID:      in.PaperID,
		Title:        in.Title,
		Authors:      in.Authors,
		Abstract:     orPlaceholder(in.Abstract, "未提供"),
		KimiSummary:  orPlaceholder(in.KimiSummary, "未提供"),
		LocalComment: orPlaceholder(in.LocalComment, "无"),
		PDFSummary:   in.PDFSummary,
	}
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// GenerateAcademicSummary produces the paper summary in the configured
// mode. Lightweight uses only the Kimi digest; two-phase drafts from
// the digest and then revises against the PDF content; the default
// mode renders everything into a single prompt.
func (c *Client) GenerateAcademicSummary(ctx context.Context, in SummaryInput) (string, error) {
	mode := c.cfg.Summary.Mode
	data := in.promptData()

	switch {
	case mode == types.ModeLightweight:
		return c.generateLightweight(ctx, data)
	case mode == types.ModeTwoPhase && c.cfg.Summary.PDFEnhanceEnabled:
		return c.generateTwoPhase(ctx, data)
	default:
		return c.generateFull(ctx, data)
	}
}

func (c *Client) generateLightweight(ctx context.Context, data promptData) (string, error) {
	prompt, err := c.renderer.Render("lightweight_summary.md.tmpl", data)
	if err != nil {
		return "", err
	}
	resp, err := c.Chat(ctx, ChatRequest{Prompt: prompt, Temperature: 0.3, MaxTokens: 1024})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (c *Client) generateTwoPhase(ctx context.Context, data promptData) (string, error) {
	base := c.cfg.Summary.Template

	// Phase 1 drafts a skeleton from the digest alone. A missing
	// phase-1 template degrades to the lightweight prompt.
	phase1Name := strings.Replace(base, ".md.tmpl", "_phase1.md.tmpl", 1)
	prompt, err := c.renderer.Render(phase1Name, data)
	if err != nil {
		prompt, err = c.renderer.Render("lightweight_summary.md.tmpl", data)
		if err != nil {
			return "", err
		}
	}

	phase1, err := c.Chat(ctx, ChatRequest{Prompt: prompt, Temperature: 0.3, MaxTokens: 1024})
	if err != nil {
		return "", err
	}

	// Phase 2 revises the skeleton against the PDF content. Without a
	// phase-2 template the skeleton is the result.
	phase2Name := strings.Replace(base, ".md.tmpl", "_phase2.md.tmpl", 1)
	data.Phase1Output = phase1.Content
	prompt, err = c.renderer.Render(phase2Name, data)
	if err != nil {
		return phase1.Content, nil
	}

	phase2, err := c.Chat(ctx, ChatRequest{Prompt: prompt, Temperature: 0.3, MaxTokens: 2048})
	if err != nil {
		return "", err
	}
	return phase2.Content, nil
}

func (c *Client) generateFull(ctx context.Context, data promptData) (string, error) {
	prompt, err := c.renderer.Render(c.cfg.Summary.Template, data)
	if err != nil {
		return "", err
	}
	resp, err := c.Chat(ctx, ChatRequest{
		Prompt:      prompt,
		Temperature: c.cfg.Summary.Temperature,
		MaxTokens:   c.cfg.Summary.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// AnalyzeImage sends a PNG to the vision provider and returns the
// model's description. An empty prompt uses the default analysis
// instruction.
func (c *Client) AnalyzeImage(ctx context.Context, imagePath, prompt string) (string, error) {
	if prompt == "" {
		prompt = defaultImagePrompt
	}

	img, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", imagePath, err)
	}

	resp, err := chatWithRetry(ctx, c.vl, ChatRequest{
		Prompt:         prompt,
		Attachment:     img,
		AttachmentMIME: "image/png",
		Temperature:    0.1,
		MaxTokens:      4096,
	}, c.cfg.Summary.MaxRetries)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// AnalyzePDF sends the whole document to the vision provider and
// returns a structured digest. Callers fall back to plain text
// extraction when the provider rejects the document.
func (c *Client) AnalyzePDF(ctx context.Context, path string) (string, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading PDF %s: %w", path, err)
	}

	resp, err := chatWithRetry(ctx, c.vl, ChatRequest{
		Prompt:         pdfDigestPrompt,
		Attachment:     doc,
		AttachmentMIME: "application/pdf",
		Temperature:    0.1,
		MaxTokens:      4096,
	}, c.cfg.Summary.MaxRetries)
	if err != nil {
		return "", err
	}
	if resp.Content == "" {
		return "", errors.New("empty PDF analysis")
	}
	return resp.Content, nil
}
