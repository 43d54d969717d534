// CLAUDE:SUMMARY Live page snapshots: headless Chrome via Rod with stealth, serialising the rendered DOM to HTML.
// Package fetch captures the rendered HTML of a live URL through headless
// Chrome, so audits can run against pages that build their content with
// scripts. File-based audits bypass this package entirely.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Config configures the fetcher.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string `json:"remote_url" yaml:"remote_url"`

	// Timeout bounds navigation plus load wait per snapshot. Default: 30s.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Fetcher holds one Chrome connection, established lazily on the first
// snapshot and reused afterwards.
type Fetcher struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// New creates a Fetcher. Chrome is not started until Snapshot is called.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{cfg: cfg}
}

// Snapshot navigates to pageURL in a stealth tab, waits for the load event,
// and returns the rendered document as HTML.
func (f *Fetcher) Snapshot(ctx context.Context, pageURL string) ([]byte, error) {
	b, err := f.connect()
	if err != nil {
		return nil, err
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("fetch: create tab: %w", err)
	}
	defer page.Close()

	navCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	start := time.Now()
	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("fetch: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		// Slow pages still yield whatever rendered before the deadline.
		f.cfg.Logger.Warn("wait load timeout, using partial render",
			"url", pageURL, "error", err)
	}

	res, err := page.Context(navCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("fetch: serialise DOM: %w", err)
	}

	f.cfg.Logger.Debug("page snapshot captured",
		"url", pageURL,
		"bytes", len(res.Value.Str()),
		"duration", time.Since(start))
	return []byte(res.Value.Str()), nil
}

// Close shuts down the Chrome connection and any locally launched process.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true

	if f.browser != nil {
		if err := f.browser.Close(); err != nil {
			return fmt.Errorf("fetch: close browser: %w", err)
		}
		f.browser = nil
	}
	if f.lnch != nil {
		f.lnch.Cleanup()
		f.lnch = nil
	}
	return nil
}

func (f *Fetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, fmt.Errorf("fetch: fetcher is closed")
	}
	if f.browser != nil {
		return f.browser, nil
	}

	var wsURL string
	if f.cfg.RemoteURL != "" {
		wsURL = f.cfg.RemoteURL
		f.cfg.Logger.Info("connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("fetch: launch chrome: %w", err)
		}
		wsURL = u
		f.lnch = l
		f.cfg.Logger.Info("launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("fetch: connect: %w", err)
	}
	f.browser = b
	return b, nil
}
