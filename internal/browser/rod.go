// Package browser renders pages with a local headless Chrome, as an
// alternative to the remote render proxy.
package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tokenomics-cli/pkg/renderproxy"
)

// Config selects the browser to drive. ControlURL attaches to a running
// Chrome; otherwise one is launched from Bin (or rod's managed download).
type Config struct {
	Bin        string
	ControlURL string
	Headless   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// Renderer satisfies the same contract as the render proxy client. The
// browser is started lazily on first use and shared by all calls.
type Renderer struct {
	cfg Config
	log *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// New creates a Renderer. Nothing is started until the first Render.
func New(cfg Config, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render opens req.URL in a new tab, waits for req.Selector and returns the
// page's HTML. Errors use the render proxy's error types.
func (r *Renderer) Render(ctx context.Context, req renderproxy.Request) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = renderproxy.DefaultTimeout
	}

	browser, err := r.ensureStarted()
	if err != nil {
		return "", &renderproxy.TransportError{URL: req.URL, Err: err}
	}

	start := time.Now()
	page, err := browser.Page(proto.TargetCreateTarget{URL: req.URL})
	if err != nil {
		return "", &renderproxy.TransportError{URL: req.URL, Err: eris.Wrap(err, "browser: open page")}
	}
	defer page.Close() //nolint:errcheck

	p := page.Context(ctx).Timeout(timeout)
	if req.Selector != "" {
		_, err = p.Element(req.Selector)
	} else {
		err = p.WaitLoad()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &renderproxy.TimeoutError{URL: req.URL, Err: err}
		}
		return "", &renderproxy.TransportError{URL: req.URL, Err: eris.Wrap(err, "browser: wait for selector")}
	}

	html, err := p.HTML()
	if err != nil {
		return "", &renderproxy.TransportError{URL: req.URL, Err: eris.Wrap(err, "browser: read html")}
	}
	r.log.Info("browser: rendered",
		zap.String("url", req.URL),
		zap.Int("bytes", len(html)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return html, nil
}

// Close shuts the browser down and removes a launched Chrome's profile.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

func (r *Renderer) ensureStarted() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}

	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(r.cfg.Headless)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, eris.Wrap(err, "browser: launch chrome")
		}
		r.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if r.launcher != nil {
			r.launcher.Kill()
			r.launcher.Cleanup()
			r.launcher = nil
		}
		return nil, eris.Wrap(err, "browser: connect to chrome")
	}
	r.log.Info("browser: connected", zap.String("control_url", controlURL))
	r.browser = b
	return b, nil
}
