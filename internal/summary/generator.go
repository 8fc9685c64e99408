// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summary turns collected paper data into a saved markdown
// summary.
package summary

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-digest/internal/collector"
	"github.com/pdiddy/paper-digest/internal/llm"
	"github.com/pdiddy/paper-digest/internal/paperscool"
	"github.com/pdiddy/paper-digest/internal/pdftext"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Collector gathers the raw material; collector.Collector implements it.
type Collector interface {
	Collect(ctx context.Context, paperID string, opts collector.Options) (*types.PaperData, error)
}

// Summarizer produces the final text; llm.Client implements it.
type Summarizer interface {
	GenerateAcademicSummary(ctx context.Context, in llm.SummaryInput) (string, error)
}

// Options control one generation run.
type Options struct {
	Download bool
	Force    bool

	// UsePDFLLM routes the downloaded PDF through the digest step
	// before prompting.
	UsePDFLLM bool

	// TempComments are one-off notes appended after the comment file.
	TempComments []string
}

// Generator runs the full pipeline for one paper.
type Generator struct {
	Collector Collector
	LLM       Summarizer
	Paths     types.PathsSettings
	PDF       types.PDFSettings
	Out       io.Writer

	// Analyzer, when set, gets first crack at the PDF digest; failures
	// fall back to plain text extraction.
	Analyzer pdftext.Analyzer
}

// Generate collects data for paperID, produces the summary and writes
// it to summaries_dir/{id}_summary.md, overwriting any previous run.
// It returns the summary text and the saved path.
func (g *Generator) Generate(ctx context.Context, paperID string, opts Options) (string, string, error) {
	data, err := g.Collector.Collect(ctx, paperID, collector.Options{
		Download:      opts.Download,
		ForceDownload: opts.Force,
	})
	if err != nil {
		return "", "", err
	}

	in := llm.SummaryInput{
		PaperID:      data.PaperID,
		Title:        data.Title(),
		Authors:      data.Authors(),
		Abstract:     data.Abstract(),
		KimiSummary:  kimiContent(data.Kimi),
		LocalComment: mergeComments(data.LocalComment, opts.TempComments),
	}

	if opts.UsePDFLLM && data.PDFPath != "" {
		digest, err := pdftext.Process(ctx, data.PDFPath, g.Analyzer, g.PDF.MaxPages, g.PDF.MaxChars)
		if err != nil {
			fmt.Fprintf(g.Out, "warning: PDF digest failed for %s: %v\n", paperID, err)
		} else {
			in.PDFSummary = digest
		}
	}

	text, err := g.LLM.GenerateAcademicSummary(ctx, in)
	if err != nil {
		return "", "", fmt.Errorf("generating summary for %s: %w", paperID, err)
	}

	path, err := g.save(data.PaperID, text)
	if err != nil {
		return "", "", err
	}

	fmt.Fprintf(g.Out, "Summary saved to: %s\n", path)
	return text, path, nil
}

// kimiContent flattens the digest for prompting: structured markup
// when the API route delivered it, otherwise the parsed summary text.
func kimiContent(k *types.KimiSummary) string {
	if k == nil {
		return ""
	}
	if k.RawHTML != "" {
		if text := paperscool.FAQText(k.RawHTML); text != "" {
			return text
		}
	}
	return k.Summary
}

// mergeComments joins the comment file with any one-off notes.
func mergeComments(fileComment string, temp []string) string {
	var parts []string
	if fileComment != "" {
		parts = append(parts, fileComment)
	}
	parts = append(parts, temp...)
	return strings.Join(parts, "\n\n")
}

func (g *Generator) save(paperID, text string) (string, error) {
	if err := os.MkdirAll(g.Paths.SummariesDir, 0o755); err != nil {
		return "", fmt.Errorf("creating summaries directory: %w", err)
	}
	path := filepath.Join(g.Paths.SummariesDir, paperID+"_summary.md")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}
