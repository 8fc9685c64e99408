// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/pdiddy/paper-digest/internal/arxiv"
	"github.com/pdiddy/paper-digest/internal/browser"
	"github.com/pdiddy/paper-digest/internal/collector"
	"github.com/pdiddy/paper-digest/internal/htmlcache"
	"github.com/pdiddy/paper-digest/internal/llm"
	"github.com/pdiddy/paper-digest/internal/paperscool"
	"github.com/pdiddy/paper-digest/internal/summary"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// pipeline bundles the wired components one subcommand run needs.
// Close releases the shared browser, if one was started.
type pipeline struct {
	Arxiv     *arxiv.Fetcher
	Generator *summary.Generator

	manager *browser.Manager
}

// newFetchers assembles the arXiv and papers.cool fetchers with their
// shared browser manager. The manager is created only when
// browser.enabled is set; the headless browser itself launches lazily
// on first scrape.
func newFetchers(cfg *types.Config) (*arxiv.Fetcher, *paperscool.Fetcher, *browser.Manager) {
	var (
		manager      *browser.Manager
		arxivScraper arxiv.Scraper
		kimiScraper  paperscool.Scraper
	)
	if cfg.Browser.Enabled {
		manager = browser.NewManager(cfg.Browser)

		var cache *htmlcache.Cache
		if cfg.Browser.CacheEnabled {
			cache = htmlcache.New(cfg.Browser.CacheDir, cfg.Browser.CacheTTLDuration())
		}
		arxivScraper = browser.NewArxivScraper(manager, cache)
		kimiScraper = browser.NewPapersCoolScraper(manager, cache)
	}

	arxivFetcher := arxiv.NewFetcher(cfg.Arxiv, arxivScraper,
		cfg.FlexMode.Enabled && cfg.FlexMode.ArxivAPI)
	kimiFetcher := paperscool.NewFetcher(cfg.PapersCool, kimiScraper,
		cfg.FlexMode.Enabled && cfg.FlexMode.PapersCoolAPI)

	return arxivFetcher, kimiFetcher, manager
}

// newPipeline wires the fetchers into a collector, LLM client and
// generator from the loaded configuration.
func newPipeline(cfg *types.Config, out io.Writer) (*pipeline, error) {
	arxivFetcher, kimiFetcher, manager := newFetchers(cfg)

	client, err := llm.New(cfg)
	if err != nil {
		if manager != nil {
			manager.Close()
		}
		return nil, err
	}

	gen := &summary.Generator{
		Collector: &collector.Collector{
			Metadata:  arxivFetcher,
			Summaries: kimiFetcher,
			Paths:     cfg.Paths,
			PDF:       cfg.PDF,
			Out:       out,
		},
		LLM:      client,
		Paths:    cfg.Paths,
		PDF:      cfg.PDF,
		Out:      out,
		Analyzer: client,
	}

	return &pipeline{Arxiv: arxivFetcher, Generator: gen, manager: manager}, nil
}

func (p *pipeline) Close() {
	if p.manager != nil {
		p.manager.Close()
	}
}
