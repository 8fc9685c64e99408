// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paperscool

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

// Scraper is the rendered-page route to a Kimi summary; the headless
// browser implements it.
type Scraper interface {
	ScrapeKimiSummary(ctx context.Context, paperID string) (*types.KimiSummary, error)
}

// Fetcher retrieves Kimi summaries, ordering the API and browser
// routes per the configured strategy.
type Fetcher struct {
	cfg     types.PapersCoolSettings
	client  *http.Client
	scraper Scraper
	flexAPI bool
}

// NewFetcher builds a Fetcher. scraper may be nil when the browser is
// disabled; flexAPI gates the API fallback under a browser-first
// strategy. The service serves with an invalid certificate chain, so
// the HTTP client skips verification the way `curl -k` does.
func NewFetcher(cfg types.PapersCoolSettings, scraper Scraper, flexAPI bool) *Fetcher {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		scraper: scraper,
		flexAPI: flexAPI,
	}
}

// Fetch returns the Kimi summary for paperID. A summary that simply
// does not exist yet comes back empty, not as an error; an error means
// no route could reach the service at all.
func (f *Fetcher) Fetch(ctx context.Context, paperID string) (*types.KimiSummary, error) {
	if f.cfg.Strategy == types.BrowserFirst {
		return f.fetchBrowserFirst(ctx, paperID)
	}
	return f.fetchAPIFirst(ctx, paperID)
}

func (f *Fetcher) fetchAPIFirst(ctx context.Context, paperID string) (*types.KimiSummary, error) {
	summary, apiErr := f.fetchAPI(ctx, paperID)
	if apiErr == nil {
		return summary, nil
	}
	log.Printf("paperscool: API fetch failed for %s: %v", paperID, apiErr)

	if f.scraper == nil {
		return nil, &httputil.ConnectivityError{
			Service:  "papers.cool",
			Attempts: []string{"api: " + apiErr.Error(), "browser: disabled"},
		}
	}

	summary, browserErr := f.scraper.ScrapeKimiSummary(ctx, paperID)
	if browserErr == nil {
		return summary, nil
	}
	return nil, &httputil.ConnectivityError{
		Service:  "papers.cool",
		Attempts: []string{"api: " + apiErr.Error(), "browser: " + browserErr.Error()},
	}
}

func (f *Fetcher) fetchBrowserFirst(ctx context.Context, paperID string) (*types.KimiSummary, error) {
	var attempts []string

	if f.scraper != nil {
		summary, err := f.scraper.ScrapeKimiSummary(ctx, paperID)
		if err == nil {
			return summary, nil
		}
		log.Printf("paperscool: browser fetch failed for %s: %v", paperID, err)
		attempts = append(attempts, "browser: "+err.Error())
	} else {
		attempts = append(attempts, "browser: disabled")
	}

	if !f.flexAPI {
		attempts = append(attempts, "api: disabled by flex_mode")
		return nil, &httputil.ConnectivityError{Service: "papers.cool", Attempts: attempts}
	}

	summary, err := f.fetchAPI(ctx, paperID)
	if err == nil {
		return summary, nil
	}
	attempts = append(attempts, "api: "+err.Error())
	return nil, &httputil.ConnectivityError{Service: "papers.cool", Attempts: attempts}
}

// fetchAPI POSTs to the Kimi endpoint and parses the structured FAQ
// response.
func (f *Fetcher) fetchAPI(ctx context.Context, paperID string) (*types.KimiSummary, error) {
	url := fmt.Sprintf("%s%s?paper=%s", f.cfg.BaseURL, f.cfg.KimiEndpoint, paperID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "paper-digest/0.1")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 0)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kimi endpoint returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return ParseHTML(paperID, string(body))
}
