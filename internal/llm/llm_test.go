// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func init() {
	backoffBase = time.Millisecond
}

func TestRenderDefaultTemplates(t *testing.T) {
	r := NewRenderer("")
	data := promptData{
		PaperID:     "2301.12345",
		Title:       "A Title",
		Authors:     "Ada Lovelace",
		Abstract:    "An abstract.",
		KimiSummary: "A digest.",
	}

	for _, name := range []string{
		"academic_summary.md.tmpl",
		"lightweight_summary.md.tmpl",
		"academic_summary_phase1.md.tmpl",
		"academic_summary_phase2.md.tmpl",
		"structured_analysis.md.tmpl",
	} {
		t.Run(name, func(t *testing.T) {
			out, err := r.Render(name, data)
			require.NoError(t, err)
			assert.Contains(t, out, "2301.12345")
			assert.Contains(t, out, "A Title")
		})
	}
}

func TestRenderOverrideDirShadowsDefault(t *testing.T) {
	dir := t.TempDir()
	custom := "custom prompt for {{.PaperID}}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "academic_summary.md.tmpl"), []byte(custom), 0o644))

	r := NewRenderer(dir)
	out, err := r.Render("academic_summary.md.tmpl", promptData{PaperID: "2301.12345"})
	require.NoError(t, err)
	assert.Equal(t, "custom prompt for 2301.12345", out)

	// Names without an override still come from the embedded set.
	out, err = r.Render("lightweight_summary.md.tmpl", promptData{PaperID: "2301.12345"})
	require.NoError(t, err)
	assert.Contains(t, out, "Kimi")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewRenderer("").Render("nope.md.tmpl", promptData{})
	assert.ErrorContains(t, err, "not found")
}

type fakeBackend struct {
	responses []string
	err       error
	requests  []ChatRequest
}

func (f *fakeBackend) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return ChatResponse{}, f.err
	}
	i := len(f.requests) - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return ChatResponse{Content: f.responses[i], Model: "fake"}, nil
}

func TestChatWithRetryExhaustion(t *testing.T) {
	b := &fakeBackend{err: errors.New("overloaded")}

	_, err := chatWithRetry(context.Background(), b, ChatRequest{Prompt: "hi"}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Len(t, b.requests, 3)
}

func testConfig() *types.Config {
	cfg := types.Default()
	cfg.API.APIKey = "test-key"
	return &cfg
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := types.Default()
	_, err := New(&cfg)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGenerateFullMode(t *testing.T) {
	cfg := testConfig()
	c, err := New(cfg)
	require.NoError(t, err)

	b := &fakeBackend{responses: []string{"the summary"}}
	c.text = b

	out, err := c.GenerateAcademicSummary(context.Background(), SummaryInput{
		PaperID:     "2301.12345",
		Title:       "A Title",
		Authors:     "Ada Lovelace",
		Abstract:    "An abstract.",
		KimiSummary: "A digest.",
		PDFSummary:  "## Method\nPDF details.",
	})
	require.NoError(t, err)
	assert.Equal(t, "the summary", out)

	require.Len(t, b.requests, 1)
	prompt := b.requests[0].Prompt
	assert.Contains(t, prompt, "A digest.")
	assert.Contains(t, prompt, "PDF details.")
	// Empty comment renders the placeholder, not a blank section.
	assert.Contains(t, prompt, "无")
	assert.Equal(t, cfg.Summary.MaxTokens, b.requests[0].MaxTokens)
}

func TestGenerateLightweightMode(t *testing.T) {
	cfg := testConfig()
	cfg.Summary.Mode = types.ModeLightweight
	c, err := New(cfg)
	require.NoError(t, err)

	b := &fakeBackend{responses: []string{"short summary"}}
	c.text = b

	out, err := c.GenerateAcademicSummary(context.Background(), SummaryInput{
		PaperID:     "2301.12345",
		Title:       "A Title",
		KimiSummary: "A digest.",
		PDFSummary:  "should not appear",
	})
	require.NoError(t, err)
	assert.Equal(t, "short summary", out)

	require.Len(t, b.requests, 1)
	assert.NotContains(t, b.requests[0].Prompt, "should not appear")
	assert.Equal(t, 1024, b.requests[0].MaxTokens)
}

func TestGenerateTwoPhaseMode(t *testing.T) {
	cfg := testConfig()
	cfg.Summary.Mode = types.ModeTwoPhase
	c, err := New(cfg)
	require.NoError(t, err)

	b := &fakeBackend{responses: []string{"phase1 skeleton", "final summary"}}
	c.text = b

	out, err := c.GenerateAcademicSummary(context.Background(), SummaryInput{
		PaperID:     "2301.12345",
		Title:       "A Title",
		KimiSummary: "A digest.",
		PDFSummary:  "PDF details.",
	})
	require.NoError(t, err)
	assert.Equal(t, "final summary", out)

	require.Len(t, b.requests, 2)
	assert.Contains(t, b.requests[1].Prompt, "phase1 skeleton")
	assert.Contains(t, b.requests[1].Prompt, "PDF details.")
}

func TestGenerateTwoPhaseMissingPhaseTemplates(t *testing.T) {
	cfg := testConfig()
	cfg.Summary.Mode = types.ModeTwoPhase
	// structured_analysis has no phase templates: phase 1 degrades to
	// the lightweight prompt and the skeleton is the final output.
	cfg.Summary.Template = "structured_analysis.md.tmpl"
	c, err := New(cfg)
	require.NoError(t, err)

	b := &fakeBackend{responses: []string{"skeleton only"}}
	c.text = b

	out, err := c.GenerateAcademicSummary(context.Background(), SummaryInput{
		PaperID:     "2301.12345",
		KimiSummary: "A digest.",
	})
	require.NoError(t, err)
	assert.Equal(t, "skeleton only", out)
	assert.Len(t, b.requests, 1)
}

func TestGenerateTwoPhaseWithoutPDFEnhanceFallsToFull(t *testing.T) {
	cfg := testConfig()
	cfg.Summary.Mode = types.ModeTwoPhase
	cfg.Summary.PDFEnhanceEnabled = false
	c, err := New(cfg)
	require.NoError(t, err)

	b := &fakeBackend{responses: []string{"full summary"}}
	c.text = b

	out, err := c.GenerateAcademicSummary(context.Background(), SummaryInput{PaperID: "2301.12345"})
	require.NoError(t, err)
	assert.Equal(t, "full summary", out)
	assert.Len(t, b.requests, 1)
}

func TestAnalyzePDFSendsDocument(t *testing.T) {
	cfg := testConfig()
	c, err := New(cfg)
	require.NoError(t, err)

	b := &fakeBackend{responses: []string{"结构化摘要"}}
	c.vl = b

	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))

	out, err := c.AnalyzePDF(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "结构化摘要", out)

	require.Len(t, b.requests, 1)
	assert.Equal(t, "application/pdf", b.requests[0].AttachmentMIME)
	assert.Equal(t, []byte("%PDF-1.4 fake"), b.requests[0].Attachment)
	assert.NotEmpty(t, b.requests[0].Prompt)
}

func TestAnalyzePDFMissingFile(t *testing.T) {
	cfg := testConfig()
	c, err := New(cfg)
	require.NoError(t, err)
	c.vl = &fakeBackend{responses: []string{"unused"}}

	_, err = c.AnalyzePDF(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestAnthropicBackendChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[
			{"type":"thinking","text":"internal"},
			{"type":"text","text":"first"},
			{"type":"text","text":"second"}
		]}`))
	}))
	defer srv.Close()

	b := NewAnthropicBackend(types.ProviderSettings{
		Provider: "anthropic",
		BaseURL:  srv.URL,
		Model:    "claude-test",
	}, "secret")

	resp, err := b.Chat(context.Background(), ChatRequest{Prompt: "hi", MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", resp.Content)
}

func TestAnthropicBackendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewAnthropicBackend(types.ProviderSettings{BaseURL: srv.URL, Model: "claude-test"}, "secret")

	_, err := b.Chat(context.Background(), ChatRequest{Prompt: "hi", MaxTokens: 100})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestOpenAIBackendChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"completion text"}}]}`))
	}))
	defer srv.Close()

	b := NewOpenAIBackend(types.ProviderSettings{
		Provider: "openai",
		BaseURL:  srv.URL,
		Model:    "gpt-test",
	}, "secret")

	resp, err := b.Chat(context.Background(), ChatRequest{Prompt: "hi", Temperature: 0.3, MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "completion text", resp.Content)
	assert.Equal(t, "gpt-test", resp.Model)
}
