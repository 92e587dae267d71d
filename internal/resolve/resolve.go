// Package resolve finds a token's slug on a provider site through web search.
package resolve

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tokenomics-cli/internal/resilience"
	"github.com/sells-group/tokenomics-cli/pkg/serper"
)

// ErrNoSearchResult is returned when the search yields no usable first
// result.
var ErrNoSearchResult = errors.New("resolve: no search result")

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRetry lets the caller retry transient search failures. Without it a
// resolution makes exactly one search call.
func WithRetry(p resilience.Policy) Option {
	return func(r *Resolver) {
		r.retry = p
	}
}

// Resolver maps (provider, token) to the provider's slug. Results are never
// cached: search rankings change, so the same token may resolve differently
// between runs.
type Resolver struct {
	search serper.Client
	retry  resilience.Policy
	log    *zap.Logger
}

// New creates a Resolver backed by search.
func New(search serper.Client, opts ...Option) *Resolver {
	r := &Resolver{search: search, retry: resilience.Policy{MaxAttempts: 1}, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolveSlug searches for "<provider> <token>" and returns the last path
// segment of the first organic result.
func (r *Resolver) ResolveSlug(ctx context.Context, provider, token string) (string, error) {
	query := strings.TrimSpace(provider + " " + token)
	resp, err := resilience.Do(ctx, r.retry, r.log, "search", func(ctx context.Context) (*serper.Response, error) {
		return r.search.Search(ctx, serper.Request{Query: query})
	})
	if err != nil {
		return "", eris.Wrapf(err, "resolve: search %q", query)
	}
	if len(resp.Organic) == 0 {
		return "", eris.Wrapf(ErrNoSearchResult, "resolve: %q returned no organic results", query)
	}
	link := resp.Organic[0].Link
	if link == "" {
		return "", eris.Wrapf(ErrNoSearchResult, "resolve: first result for %q has no link", query)
	}
	slug, err := SlugFromLink(link)
	if err != nil {
		return "", eris.Wrapf(err, "resolve: first result for %q", query)
	}
	r.log.Info("slug resolved",
		zap.String("provider", provider),
		zap.String("token", token),
		zap.String("link", link),
		zap.String("slug", slug),
	)
	return slug, nil
}

// SlugFromLink returns the last path segment of link, ignoring a trailing
// slash, query and fragment.
func SlugFromLink(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", eris.Wrapf(ErrNoSearchResult, "resolve: invalid link %q", link)
	}
	path := strings.TrimRight(u.Path, "/")
	slug := path[strings.LastIndex(path, "/")+1:]
	if slug == "" {
		return "", eris.Wrapf(ErrNoSearchResult, "resolve: link %q has no path segment", link)
	}
	return slug, nil
}
