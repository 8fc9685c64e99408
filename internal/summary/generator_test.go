// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summary

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/collector"
	"github.com/pdiddy/paper-digest/internal/llm"
	"github.com/pdiddy/paper-digest/pkg/types"
)

type fakeCollector struct {
	data *types.PaperData
	err  error
	opts collector.Options
}

func (f *fakeCollector) Collect(ctx context.Context, paperID string, opts collector.Options) (*types.PaperData, error) {
	f.opts = opts
	return f.data, f.err
}

type fakeSummarizer struct {
	text string
	err  error
	in   llm.SummaryInput
}

func (f *fakeSummarizer) GenerateAcademicSummary(ctx context.Context, in llm.SummaryInput) (string, error) {
	f.in = in
	return f.text, f.err
}

func newGenerator(t *testing.T, c *fakeCollector, s *fakeSummarizer) *Generator {
	t.Helper()
	return &Generator{
		Collector: c,
		LLM:       s,
		Paths:     types.PathsSettings{SummariesDir: t.TempDir()},
		Out:       &bytes.Buffer{},
	}
}

func paperData() *types.PaperData {
	return &types.PaperData{
		PaperID: "2301.12345",
		Arxiv: &types.ArxivPaper{
			ID:       "2301.12345",
			Title:    "A Title",
			Authors:  []string{"Ada Lovelace"},
			Abstract: "An abstract.",
		},
		Kimi: &types.KimiSummary{
			PaperID:   "2301.12345",
			Summary:   "parsed digest",
			KeyPoints: []string{},
		},
		LocalComment: "file comment",
	}
}

func TestGenerateWritesSummaryFile(t *testing.T) {
	c := &fakeCollector{data: paperData()}
	s := &fakeSummarizer{text: "# Generated Summary"}
	g := newGenerator(t, c, s)

	text, path, err := g.Generate(context.Background(), "2301.12345", Options{Download: true})
	require.NoError(t, err)
	assert.Equal(t, "# Generated Summary", text)
	assert.Equal(t, filepath.Join(g.Paths.SummariesDir, "2301.12345_summary.md"), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Generated Summary", string(saved))

	assert.True(t, c.opts.Download)
	assert.Equal(t, "A Title", s.in.Title)
	assert.Equal(t, "Ada Lovelace", s.in.Authors)
	assert.Equal(t, "parsed digest", s.in.KimiSummary)
}

func TestGenerateOverwritesPreviousRun(t *testing.T) {
	c := &fakeCollector{data: paperData()}
	s := &fakeSummarizer{text: "first run"}
	g := newGenerator(t, c, s)

	_, path, err := g.Generate(context.Background(), "2301.12345", Options{})
	require.NoError(t, err)

	s.text = "second run"
	_, _, err = g.Generate(context.Background(), "2301.12345", Options{})
	require.NoError(t, err)

	saved, _ := os.ReadFile(path)
	assert.Equal(t, "second run", string(saved))
}

func TestGeneratePrefersStructuredKimiMarkup(t *testing.T) {
	data := paperData()
	data.Kimi.RawHTML = `<p class="faq-q">Q1: What problem?</p><div class="faq-a">The stated problem.</div>`
	c := &fakeCollector{data: data}
	s := &fakeSummarizer{text: "out"}
	g := newGenerator(t, c, s)

	_, _, err := g.Generate(context.Background(), "2301.12345", Options{})
	require.NoError(t, err)
	assert.Contains(t, s.in.KimiSummary, "The stated problem.")
}

func TestGenerateMergesTempComments(t *testing.T) {
	c := &fakeCollector{data: paperData()}
	s := &fakeSummarizer{text: "out"}
	g := newGenerator(t, c, s)

	_, _, err := g.Generate(context.Background(), "2301.12345", Options{
		TempComments: []string{"note one", "note two"},
	})
	require.NoError(t, err)
	assert.Equal(t, "file comment\n\nnote one\n\nnote two", s.in.LocalComment)
}

func TestGenerateMissingKimiIsEmptyInput(t *testing.T) {
	data := paperData()
	data.Kimi = nil
	c := &fakeCollector{data: data}
	s := &fakeSummarizer{text: "out"}
	g := newGenerator(t, c, s)

	_, _, err := g.Generate(context.Background(), "2301.12345", Options{})
	require.NoError(t, err)
	assert.Equal(t, "", s.in.KimiSummary)
}

type stubAnalyzer struct {
	digest string
	err    error
	path   string
}

func (s *stubAnalyzer) AnalyzePDF(ctx context.Context, path string) (string, error) {
	s.path = path
	return s.digest, s.err
}

func TestGenerateUsesAnalyzerDigest(t *testing.T) {
	pdfPath := filepath.Join(t.TempDir(), "2301.12345.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))

	data := paperData()
	data.PDFPath = pdfPath
	c := &fakeCollector{data: data}
	s := &fakeSummarizer{text: "out"}
	g := newGenerator(t, c, s)
	a := &stubAnalyzer{digest: "## 方法\n多模态解析结果"}
	g.Analyzer = a

	_, _, err := g.Generate(context.Background(), "2301.12345", Options{UsePDFLLM: true})
	require.NoError(t, err)
	assert.Equal(t, pdfPath, a.path)
	assert.Equal(t, "## 方法\n多模态解析结果", s.in.PDFSummary)
}

func TestGenerateCollectorError(t *testing.T) {
	c := &fakeCollector{err: errors.New("invalid id")}
	g := newGenerator(t, c, &fakeSummarizer{})

	_, _, err := g.Generate(context.Background(), "bogus", Options{})
	assert.EqualError(t, err, "invalid id")
}

func TestGenerateLLMError(t *testing.T) {
	c := &fakeCollector{data: paperData()}
	s := &fakeSummarizer{err: errors.New("after 3 retries: overloaded")}
	g := newGenerator(t, c, s)

	_, _, err := g.Generate(context.Background(), "2301.12345", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating summary")

	// A failed generation must not leave a summary file behind.
	entries, readErr := os.ReadDir(g.Paths.SummariesDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
