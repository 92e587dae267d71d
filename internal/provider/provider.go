// Package provider defines the per-site fetch and extract units.
package provider

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/sells-group/tokenomics-cli/internal/dom"
	"github.com/sells-group/tokenomics-cli/internal/model"
	"github.com/sells-group/tokenomics-cli/pkg/renderproxy"
)

// Renderer returns the rendered HTML of a page. Both the render proxy client
// and the local browser satisfy it.
type Renderer interface {
	Render(ctx context.Context, req renderproxy.Request) (string, error)
}

// Provider fetches and extracts one site's data for a token slug. The two
// calls are independent and may run concurrently.
type Provider interface {
	// Name returns the identifier used in search queries and config.
	Name() string
	// Label returns the display name used in report headings.
	Label() string
	// Fundraising fetches the site's fundraising page.
	Fundraising(ctx context.Context, slug string) (*model.Fundraising, error)
	// Vesting fetches the site's vesting page.
	Vesting(ctx context.Context, slug string) (*model.Vesting, error)
}

// Option configures a provider.
type Option func(*base)

// WithTimeout sets the selector wait sent with every render request.
func WithTimeout(d time.Duration) Option {
	return func(b *base) {
		b.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.log = l
		}
	}
}

// base holds what every provider shares: a renderer, the selector timeout and
// a logger.
type base struct {
	name    string
	render  Renderer
	timeout time.Duration
	log     *zap.Logger
}

func newBase(name string, r Renderer, opts []Option) base {
	b := base{
		name:    name,
		render:  r,
		timeout: renderproxy.DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// fetch renders one page and parses it.
func (b *base) fetch(ctx context.Context, page, slug, url, selector string) (*html.Node, error) {
	if slug == "" {
		return nil, eris.Errorf("%s: empty slug", b.name)
	}
	start := time.Now()
	body, err := b.render.Render(ctx, renderproxy.Request{
		URL:      url,
		Selector: selector,
		Timeout:  b.timeout,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "%s: render %s page for %s", b.name, page, slug)
	}
	doc, err := dom.Parse(body)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: parse %s page for %s", b.name, page, slug)
	}
	b.log.Debug("page fetched",
		zap.String("provider", b.name),
		zap.String("page", page),
		zap.String("slug", slug),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return doc, nil
}

// Registry holds providers in registration order, which is also the order
// their sections appear in reports.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider. Registering a name again replaces the provider
// but keeps its position.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// All returns the providers in registration order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}
