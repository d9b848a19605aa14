// Package browser manages the Chrome process behind tabctl drivers:
// launch or connect, create stealth tabs, monitor memory, recycle on
// threshold or interval, and hand fresh rod pages to whoever asks.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Mode selects how tabs are created.
type Mode int

const (
	// ModeHeadless runs Chrome headless with stealth patches applied to
	// every tab.
	ModeHeadless Mode = iota
	// ModeHeadful runs a visible Chrome (requires a display).
	ModeHeadful
)

// Config configures the Manager.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of an external Chrome.
	// Empty launches a local one.
	RemoteURL string `yaml:"remote"`

	// MemoryLimit in bytes; Chrome is recycled above it. Default 1GB.
	MemoryLimit int64 `yaml:"memory_limit"`

	// RecycleInterval is the maximum Chrome lifetime. Default 4h.
	RecycleInterval time.Duration `yaml:"recycle_interval"`

	// Mode: "headless" (default) or "headful" in YAML.
	Mode Mode `yaml:"-"`

	// Stealth applies anti-detection patches to new tabs. Default on
	// for headless mode.
	Stealth bool `yaml:"stealth"`

	// IgnoreCertErrors accepts invalid TLS certificates.
	IgnoreCertErrors bool `yaml:"ignore_cert_errors"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.MemoryLimit <= 0 {
		c.MemoryLimit = 1 << 30
	}
	if c.RecycleInterval <= 0 {
		c.RecycleInterval = 4 * time.Hour
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// RecycleCallback notifies tab owners around a Chrome restart so they
// can drop stale handles and reopen.
type RecycleCallback struct {
	BeforeRecycle func()
	AfterRecycle  func(b *rod.Browser)
}

// Manager owns one Chrome process (or one remote connection).
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	startAt time.Time
	closed  bool
	cb      *RecycleCallback
}

// NewManager creates a Manager. Call Start to launch or connect.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// SetRecycleCallback sets the callback invoked around recycling.
func (m *Manager) SetRecycleCallback(cb *RecycleCallback) {
	m.mu.Lock()
	m.cb = cb
	m.mu.Unlock()
}

// Start launches Chrome (or connects to RemoteURL) and starts the
// monitor goroutine. The goroutine exits when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}

	b, err := m.launch()
	if err != nil {
		return nil, err
	}
	m.browser = b
	m.startAt = time.Now()

	go m.monitorLoop(ctx)

	return b, nil
}

// Browser returns the current rod handle. Thread-safe; nil before
// Start or after Close.
func (m *Manager) Browser() *rod.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// OpenTab creates a new tab, applying stealth when configured, and
// optionally navigates it. An empty url leaves the tab on about:blank.
func (m *Manager) OpenTab(ctx context.Context, url string) (*rod.Page, error) {
	b := m.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	var p *rod.Page
	var err error
	if m.cfg.Stealth || m.cfg.Mode == ModeHeadless {
		p, err = stealth.Page(b)
	} else {
		p, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if url != "" {
		if err := p.Context(ctx).Navigate(url); err != nil {
			p.Close()
			return nil, fmt.Errorf("browser: navigate %s: %w", url, err)
		}
		if err := p.Context(ctx).WaitLoad(); err != nil {
			m.cfg.Logger.Warn("browser: initial load timeout", "url", url, "error", err)
		}
	}
	return p, nil
}

// Recycle kills Chrome, restarts it, and notifies the callback.
func (m *Manager) Recycle() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("browser: manager is closed")
	}
	return m.recycleLocked()
}

// Close shuts down Chrome.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.cleanup()
}

func (m *Manager) launch() (*rod.Browser, error) {
	log := m.cfg.Logger

	var wsURL string
	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(m.cfg.Mode == ModeHeadless).
			Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headless", m.cfg.Mode == ModeHeadless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	if m.cfg.IgnoreCertErrors {
		if err := b.IgnoreCertErrors(true); err != nil {
			log.Warn("browser: ignore cert errors failed", "error", err)
		}
	}
	return b, nil
}

func (m *Manager) recycleLocked() error {
	log := m.cfg.Logger
	log.Info("browser: recycling", "uptime", time.Since(m.startAt))

	if m.cb != nil && m.cb.BeforeRecycle != nil {
		m.cb.BeforeRecycle()
	}

	if err := m.cleanup(); err != nil {
		log.Warn("browser: cleanup during recycle", "error", err)
	}

	b, err := m.launch()
	if err != nil {
		return fmt.Errorf("browser: relaunch: %w", err)
	}
	m.browser = b
	m.startAt = time.Now()

	if m.cb != nil && m.cb.AfterRecycle != nil {
		m.cb.AfterRecycle(b)
	}

	log.Info("browser: recycled")
	return nil
}

func (m *Manager) cleanup() error {
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return nil
}

func (m *Manager) monitorLoop(ctx context.Context) {
	log := m.cfg.Logger
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.RLock()
			closed, startAt, b := m.closed, m.startAt, m.browser
			m.mu.RUnlock()
			if closed || b == nil {
				return
			}

			if time.Since(startAt) > m.cfg.RecycleInterval {
				log.Info("browser: recycle interval reached")
				if err := m.Recycle(); err != nil {
					log.Error("browser: recycle failed", "error", err)
				}
				continue
			}

			used, err := jsHeapUsage(b)
			if err != nil {
				log.Debug("browser: heap check failed", "error", err)
				continue
			}
			if used > m.cfg.MemoryLimit {
				log.Info("browser: memory limit exceeded", "used", used, "limit", m.cfg.MemoryLimit)
				if err := m.Recycle(); err != nil {
					log.Error("browser: recycle failed", "error", err)
				}
			}
		}
	}
}

// jsHeapUsage samples the JS heap of the first open page as a proxy
// for overall Chrome memory pressure.
func jsHeapUsage(b *rod.Browser) (int64, error) {
	pages, err := b.Pages()
	if err != nil || len(pages) == 0 {
		return 0, fmt.Errorf("browser: no pages for heap check")
	}
	res, err := pages[0].Eval(`() => performance.memory ? performance.memory.usedJSHeapSize : 0`)
	if err != nil {
		return 0, err
	}
	return int64(res.Value.Int()), nil
}
