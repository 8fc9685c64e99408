// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collector gathers everything known about one paper: arXiv
// metadata, the Kimi digest, the local comment file and the PDF text.
// The two network fetches run in parallel; a failed source becomes an
// absent field, not a failed collection.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/paper-digest/internal/arxiv"
	"github.com/pdiddy/paper-digest/internal/pdftext"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// MetadataFetcher is the metadata route; arxiv.Fetcher implements it.
type MetadataFetcher interface {
	Fetch(ctx context.Context, paperID string) (*types.ArxivPaper, error)
	DownloadPDF(ctx context.Context, paperID, destDir string, force bool) (string, error)
}

// SummaryFetcher is the digest route; paperscool.Fetcher implements it.
type SummaryFetcher interface {
	Fetch(ctx context.Context, paperID string) (*types.KimiSummary, error)
}

// Options control one collection run.
type Options struct {
	Download      bool
	ForceDownload bool
}

// Collector wires the fetchers to the configured directories.
type Collector struct {
	Metadata  MetadataFetcher
	Summaries SummaryFetcher
	Paths     types.PathsSettings
	PDF       types.PDFSettings

	// Out receives progress and warning lines.
	Out io.Writer
}

// Collect gathers data for paperID. Source failures degrade to nil
// fields and a warning on Out; the only hard failure is a malformed
// identifier, which no amount of fetching can fix.
func (c *Collector) Collect(ctx context.Context, paperID string, opts Options) (*types.PaperData, error) {
	if err := arxiv.ValidateID(paperID); err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		paper    *types.ArxivPaper
		paperErr error
		kimi     *types.KimiSummary
		kimiErr  error
	)

	// Each goroutine writes only its own pair; warnings go to Out
	// after the join so concurrent fetches never share the writer.
	wg.Add(2)
	go func() {
		defer wg.Done()
		paper, paperErr = c.Metadata.Fetch(ctx, paperID)
	}()
	go func() {
		defer wg.Done()
		kimi, kimiErr = c.Summaries.Fetch(ctx, paperID)
	}()
	wg.Wait()

	if paperErr != nil {
		paper = nil
		fmt.Fprintf(c.Out, "warning: arXiv metadata unavailable for %s: %v\n", paperID, paperErr)
	}
	if kimiErr != nil {
		kimi = nil
		fmt.Fprintf(c.Out, "warning: Kimi summary unavailable for %s: %v\n", paperID, kimiErr)
	}

	data := &types.PaperData{
		PaperID:      paperID,
		Arxiv:        paper,
		Kimi:         kimi,
		LocalComment: c.loadComment(paperID),
	}

	if opts.Download && paper != nil {
		path, err := c.Metadata.DownloadPDF(ctx, paperID, c.Paths.PDFDir, opts.ForceDownload)
		if err != nil {
			fmt.Fprintf(c.Out, "warning: PDF download failed for %s: %v\n", paperID, err)
		} else {
			data.PDFPath = path
		}
	}

	if data.PDFPath != "" {
		text, err := pdftext.Extract(data.PDFPath, c.PDF.MaxPages, c.PDF.MaxChars)
		if err != nil {
			fmt.Fprintf(c.Out, "warning: PDF text extraction failed for %s: %v\n", paperID, err)
		} else {
			data.PDFText = text
		}
	}

	return data, nil
}

// loadComment reads the local comment file for the paper; absence is
// an empty comment.
func (c *Collector) loadComment(paperID string) string {
	path := filepath.Join(c.Paths.CommentsDir, paperID+".md")
	body, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(c.Out, "warning: reading comment file %s: %v\n", path, err)
		}
		return ""
	}
	return string(body)
}
