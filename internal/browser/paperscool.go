// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/pdiddy/paper-digest/internal/htmlcache"
	"github.com/pdiddy/paper-digest/internal/paperscool"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// papersCoolBaseURL is a package var so tests can point the scraper at
// a fixture server.
var papersCoolBaseURL = "https://papers.cool"

// kimiSettleDelay is how long the page gets to render the Kimi panel
// after the trigger is clicked.
var kimiSettleDelay = 3 * time.Second

// PapersCoolScraper loads a paper's page, triggers the Kimi panel and
// parses the rendered text into a summary.
type PapersCoolScraper struct {
	manager *Manager
	cache   *htmlcache.Cache

	// fetch is swapped out in tests.
	fetch func(ctx context.Context, url, paperID string) (string, error)
}

// NewPapersCoolScraper builds a scraper that caches parsed summaries
// in cache.
func NewPapersCoolScraper(manager *Manager, cache *htmlcache.Cache) *PapersCoolScraper {
	s := &PapersCoolScraper{manager: manager, cache: cache}
	s.fetch = s.fetchPageText
	return s
}

// ScrapeKimiSummary retrieves the Kimi digest for paperID, retrying
// transient page failures. Results are served from and stored to the
// HTML cache.
func (s *PapersCoolScraper) ScrapeKimiSummary(ctx context.Context, paperID string) (*types.KimiSummary, error) {
	url := fmt.Sprintf("%s/arxiv/%s", papersCoolBaseURL, paperID)

	var cached types.KimiSummary
	if s.cache.Get(url, &cached) {
		if cached.KeyPoints == nil {
			cached.KeyPoints = []string{}
		}
		return &cached, nil
	}

	var fullText string
	err := withRetry(ctx, "papers.cool scrape", func() error {
		var fetchErr error
		fullText, fetchErr = s.fetch(ctx, url, paperID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	summary := paperscool.ParseFreeText(paperID, fullText)
	if !summary.IsEmpty() {
		s.cache.Put(url, summary)
	}
	return summary, nil
}

// fetchPageText loads the page, clicks the Kimi trigger when present
// and returns the rendered body text.
func (s *PapersCoolScraper) fetchPageText(ctx context.Context, url, paperID string) (string, error) {
	tabCtx, cancel, err := s.manager.Tab(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	clickScript := fmt.Sprintf(`(() => {
		const btn = document.querySelector('a[id=%q]');
		if (btn) { btn.click(); return true; }
		return false;
	})()`, "kimi-"+paperID)

	var clicked bool
	var fullText string
	// The Kimi panel renders Chinese content; ask for it explicitly.
	err = chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8"}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(clickScript, &clicked),
		chromedp.Sleep(kimiSettleDelay),
		chromedp.Evaluate(`document.body.innerText`, &fullText),
	)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", url, err)
	}
	if !clicked {
		// The panel may already be expanded; the page text is still
		// worth parsing.
		log.Printf("browser: kimi trigger not found for %s", paperID)
	}
	return fullText, nil
}
