// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser drives a headless Chrome instance for the scrape
// routes. One browser process is shared; each page visit gets its own
// tab with the configured timeout.
package browser

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Manager owns the browser process. Startup is lazy: nothing launches
// until the first tab is requested, so API-only runs never pay the
// Chrome startup cost.
type Manager struct {
	cfg types.BrowserSettings

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	tabCount      int
}

// NewManager builds a Manager from settings. Call Close when done.
func NewManager(cfg types.BrowserSettings) *Manager {
	return &Manager{cfg: cfg}
}

// ensureStarted launches the browser on first use.
func (m *Manager) ensureStarted() error {
	if m.browserCtx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.cfg.Headless),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(m.userAgent()),
		chromedp.WindowSize(1280, 800),
	)
	if m.cfg.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(m.cfg.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so later failures are attributed
	// to the page, not the launch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return err
	}

	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	return nil
}

// userAgent returns the configured agent string, or the default when
// the config leaves it empty.
func (m *Manager) userAgent() string {
	if m.cfg.UserAgent != "" {
		return m.cfg.UserAgent
	}
	return defaultUserAgent
}

// Tab returns a context for one page visit, bounded by the configured
// timeout and by parent. The returned cancel must be called to close
// the tab.
func (m *Manager) Tab(parent context.Context) (context.Context, context.CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureStarted(); err != nil {
		return nil, nil, err
	}
	m.tabCount++

	tabCtx, tabCancel := chromedp.NewContext(m.browserCtx)

	timeout := time.Duration(m.cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	timed, timedCancel := context.WithTimeout(tabCtx, timeout)

	stop := context.AfterFunc(parent, timedCancel)
	cancel := func() {
		stop()
		timedCancel()
		tabCancel()
	}
	return timed, cancel, nil
}

// Close shuts the browser down. The Manager is not reusable after.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCtx == nil {
		return
	}
	log.Printf("browser: closing (opened %d tabs)", m.tabCount)
	m.browserCancel()
	m.allocCancel()
	m.browserCtx = nil
	m.browserCancel = nil
	m.allocCancel = nil
}
