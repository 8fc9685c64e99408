// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/pdiddy/paper-digest/internal/htmlcache"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// arxivBaseURL is a package var so tests can point the scraper at a
// fixture server.
var arxivBaseURL = "https://arxiv.org"

// arxivMetaScript reads the citation_* meta tags the abstract page
// carries plus the visible subject and comment blocks as fallbacks.
const arxivMetaScript = `(() => {
	const meta = (name) => {
		const el = document.querySelector('meta[name="' + name + '"]');
		return el ? el.getAttribute('content') : '';
	};
	const metas = (name) =>
		Array.from(document.querySelectorAll('meta[name="' + name + '"]'))
			.map((el) => el.getAttribute('content'));

	let categories = [];
	const kw = meta('citation_keywords');
	if (kw) {
		categories = kw.split(',').map((c) => c.trim());
	} else {
		const subjects = document.querySelector('.subjects');
		if (subjects) {
			categories = subjects.textContent.split(',').map((s) => s.trim());
		}
	}

	const pdfLink = document.querySelector('a[href*=".pdf"]');
	const commentEl = document.querySelector('.comments');

	return {
		title: meta('citation_title'),
		authors: metas('citation_author'),
		abstract: meta('citation_abstract'),
		published: meta('citation_publication_date'),
		doi: meta('citation_doi'),
		categories: categories,
		pdf_url: pdfLink ? pdfLink.href : '',
		comment: commentEl ? commentEl.textContent.replace('Comments:', '').trim() : '',
	};
})()`

// arxivPageMeta mirrors the object arxivMetaScript evaluates to.
type arxivPageMeta struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Published  string   `json:"published"`
	DOI        string   `json:"doi"`
	Categories []string `json:"categories"`
	PDFURL     string   `json:"pdf_url"`
	Comment    string   `json:"comment"`
}

// ArxivScraper fetches paper metadata from the rendered abstract page.
type ArxivScraper struct {
	manager *Manager
	cache   *htmlcache.Cache

	// fetch is swapped out in tests.
	fetch func(ctx context.Context, url string) (*arxivPageMeta, error)
}

// NewArxivScraper builds a scraper that caches page results in cache.
func NewArxivScraper(manager *Manager, cache *htmlcache.Cache) *ArxivScraper {
	s := &ArxivScraper{manager: manager, cache: cache}
	s.fetch = s.fetchPage
	return s
}

// ScrapePaper loads the abstract page for paperID and extracts
// metadata, retrying transient page failures. Results are served from
// and stored to the HTML cache.
func (s *ArxivScraper) ScrapePaper(ctx context.Context, paperID string) (*types.ArxivPaper, error) {
	url := fmt.Sprintf("%s/abs/%s", arxivBaseURL, paperID)

	var cached types.ArxivPaper
	if s.cache.Get(url, &cached) {
		return &cached, nil
	}

	var meta *arxivPageMeta
	err := withRetry(ctx, "arxiv scrape", func() error {
		var fetchErr error
		meta, fetchErr = s.fetch(ctx, url)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	paper := &types.ArxivPaper{
		ID:        paperID,
		Title:     strings.TrimSpace(meta.Title),
		Authors:   meta.Authors,
		Abstract:  strings.TrimSpace(meta.Abstract),
		Published: meta.Published,
		Updated:   meta.Published,
		PDFURL:    meta.PDFURL,
		Subjects:  meta.Categories,
		DOI:       meta.DOI,
		Comment:   meta.Comment,
	}

	if paper.Title != "" {
		s.cache.Put(url, paper)
	}
	return paper, nil
}

func (s *ArxivScraper) fetchPage(ctx context.Context, url string) (*arxivPageMeta, error) {
	tabCtx, cancel, err := s.manager.Tab(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var meta arxivPageMeta
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(arxivMetaScript, &meta),
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", url, err)
	}
	return &meta, nil
}
