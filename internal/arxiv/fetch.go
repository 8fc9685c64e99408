// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Scraper is the rendered-page route to paper metadata; the headless
// browser implements it.
type Scraper interface {
	ScrapePaper(ctx context.Context, paperID string) (*types.ArxivPaper, error)
}

// Fetcher retrieves paper metadata, ordering the API and browser
// routes per the configured strategy.
type Fetcher struct {
	cfg     types.ArxivSettings
	client  *http.Client
	scraper Scraper
	flexAPI bool
}

// NewFetcher builds a Fetcher. scraper may be nil when the browser is
// disabled; flexAPI gates the API fallback under a browser-first
// strategy. Certificate verification is skipped to match the curl -k
// transport the service is reached with behind intercepting proxies.
func NewFetcher(cfg types.ArxivSettings, scraper Scraper, flexAPI bool) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		scraper: scraper,
		flexAPI: flexAPI,
	}
}

// Fetch returns metadata for paperID. The identifier is validated
// before any route runs, so a malformed id fails without network
// traffic.
func (f *Fetcher) Fetch(ctx context.Context, paperID string) (*types.ArxivPaper, error) {
	if err := ValidateID(paperID); err != nil {
		return nil, err
	}

	if f.cfg.Strategy == types.BrowserFirst {
		return f.fetchBrowserFirst(ctx, paperID)
	}
	return f.fetchAPIFirst(ctx, paperID)
}

func (f *Fetcher) fetchAPIFirst(ctx context.Context, paperID string) (*types.ArxivPaper, error) {
	paper, apiErr := f.fetchAPI(ctx, paperID)
	if apiErr == nil {
		return paper, nil
	}
	log.Printf("arxiv: API fetch failed for %s: %v", paperID, apiErr)

	if f.scraper == nil {
		return nil, &httputil.ConnectivityError{
			Service:  "arxiv",
			Attempts: []string{"api: " + apiErr.Error(), "browser: disabled"},
		}
	}

	paper, browserErr := f.scraper.ScrapePaper(ctx, paperID)
	if browserErr == nil && paper.Title != "" {
		return paper, nil
	}
	if browserErr == nil {
		browserErr = fmt.Errorf("browser returned empty metadata for %s", paperID)
	}
	return nil, &httputil.ConnectivityError{
		Service:  "arxiv",
		Attempts: []string{"api: " + apiErr.Error(), "browser: " + browserErr.Error()},
	}
}

func (f *Fetcher) fetchBrowserFirst(ctx context.Context, paperID string) (*types.ArxivPaper, error) {
	var attempts []string

	if f.scraper != nil {
		paper, err := f.scraper.ScrapePaper(ctx, paperID)
		if err == nil && paper.Title != "" {
			return paper, nil
		}
		if err == nil {
			err = fmt.Errorf("browser returned empty metadata for %s", paperID)
		}
		log.Printf("arxiv: browser fetch failed for %s: %v", paperID, err)
		attempts = append(attempts, "browser: "+err.Error())
	} else {
		attempts = append(attempts, "browser: disabled")
	}

	if !f.flexAPI {
		attempts = append(attempts, "api: disabled by flex_mode")
		return nil, &httputil.ConnectivityError{Service: "arxiv", Attempts: attempts}
	}

	paper, err := f.fetchAPI(ctx, paperID)
	if err == nil {
		return paper, nil
	}
	attempts = append(attempts, "api: "+err.Error())
	return nil, &httputil.ConnectivityError{Service: "arxiv", Attempts: attempts}
}

func (f *Fetcher) fetchAPI(ctx context.Context, paperID string) (*types.ArxivPaper, error) {
	url := fmt.Sprintf("%s?id_list=%s", f.cfg.APIURL, paperID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseAtom(body)
}
