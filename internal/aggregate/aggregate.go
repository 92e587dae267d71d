// Package aggregate builds combined reports across providers.
//
// A report build resolves the token's slug on every provider, then runs each
// provider's fetch and extract. A failure in one provider never aborts the
// build: it becomes an unavailable outcome rendered in that provider's place.
package aggregate

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tokenomics-cli/internal/model"
	"github.com/sells-group/tokenomics-cli/internal/provider"
	"github.com/sells-group/tokenomics-cli/internal/report"
)

// SlugResolver maps a token to a provider's slug.
type SlugResolver interface {
	ResolveSlug(ctx context.Context, provider, token string) (string, error)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the parent logger; every build derives a child from it.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithConcurrency runs the providers of a build in parallel instead of one
// after another. Output order is unchanged.
func WithConcurrency(on bool) Option {
	return func(a *Aggregator) {
		a.concurrent = on
	}
}

// Aggregator combines provider outputs into reports.
type Aggregator struct {
	resolver   SlugResolver
	providers  []provider.Provider
	concurrent bool
	log        *zap.Logger
}

// New creates an Aggregator over providers, in report order.
func New(resolver SlugResolver, providers []provider.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		resolver:  resolver,
		providers: providers,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// slugResult is one provider's resolution.
type slugResult struct {
	slug string
	err  error
}

// Links resolves the token on every provider. Providers whose slug could not
// be resolved are present with an empty value.
func (a *Aggregator) Links(ctx context.Context, token string) map[string]string {
	log := a.buildLogger("links", token)
	slugs := a.resolveAll(ctx, log, token)
	out := make(map[string]string, len(a.providers))
	for i, p := range a.providers {
		out[p.Name()] = slugs[i].slug
	}
	return out
}

// FundraisingOutcomes runs the fundraising pipeline of every provider.
func (a *Aggregator) FundraisingOutcomes(ctx context.Context, token string) []model.Outcome[model.Fundraising] {
	log := a.buildLogger("fundraising", token)
	slugs := a.resolveAll(ctx, log, token)
	out := make([]model.Outcome[model.Fundraising], len(a.providers))
	a.each(func(i int) {
		out[i] = FundraisingOutcome(ctx, log, a.providers[i], slugs[i].slug, slugs[i].err)
	})
	return out
}

// VestingOutcomes runs the vesting pipeline of every provider.
func (a *Aggregator) VestingOutcomes(ctx context.Context, token string) []model.Outcome[model.Vesting] {
	log := a.buildLogger("vesting", token)
	slugs := a.resolveAll(ctx, log, token)
	out := make([]model.Outcome[model.Vesting], len(a.providers))
	a.each(func(i int) {
		out[i] = VestingOutcome(ctx, log, a.providers[i], slugs[i].slug, slugs[i].err)
	})
	return out
}

// FundraisingReport builds the combined fundraising report for token.
func (a *Aggregator) FundraisingReport(ctx context.Context, token string) string {
	return report.FundraisingReport(a.FundraisingOutcomes(ctx, token))
}

// VestingReport builds the combined vesting report for token.
func (a *Aggregator) VestingReport(ctx context.Context, token string) string {
	return report.VestingReport(a.VestingOutcomes(ctx, token))
}

// FundraisingOutcome runs one provider's fundraising fetch for an already
// resolved slug. slugErr, when set, short-circuits to an unavailable outcome.
func FundraisingOutcome(ctx context.Context, log *zap.Logger, p provider.Provider, slug string, slugErr error) model.Outcome[model.Fundraising] {
	if slugErr != nil {
		return model.Unavailable[model.Fundraising](p.Name(), p.Label(), "", "slug not resolved: "+slugErr.Error())
	}
	data, err := p.Fundraising(ctx, slug)
	if err != nil {
		log.Warn("provider unavailable", zap.String("provider", p.Name()), zap.String("slug", slug), zap.Error(err))
		return model.Unavailable[model.Fundraising](p.Name(), p.Label(), slug, err.Error())
	}
	log.Info("fundraising extracted",
		zap.String("provider", p.Name()),
		zap.String("slug", slug),
		zap.Int("rounds", len(data.Rounds)),
		zap.Int("investors", len(data.Investors)),
	)
	return model.Ok(p.Name(), p.Label(), slug, data)
}

// VestingOutcome runs one provider's vesting fetch for an already resolved
// slug.
func VestingOutcome(ctx context.Context, log *zap.Logger, p provider.Provider, slug string, slugErr error) model.Outcome[model.Vesting] {
	if slugErr != nil {
		return model.Unavailable[model.Vesting](p.Name(), p.Label(), "", "slug not resolved: "+slugErr.Error())
	}
	data, err := p.Vesting(ctx, slug)
	if err != nil {
		log.Warn("provider unavailable", zap.String("provider", p.Name()), zap.String("slug", slug), zap.Error(err))
		return model.Unavailable[model.Vesting](p.Name(), p.Label(), slug, err.Error())
	}
	log.Info("vesting extracted",
		zap.String("provider", p.Name()),
		zap.String("slug", slug),
		zap.Int("distribution", len(data.Distribution)),
		zap.Int("allocations", len(data.Allocations)),
		zap.Int("locks", len(data.Locks)),
	)
	return model.Ok(p.Name(), p.Label(), slug, data)
}

// resolveAll resolves every provider's slug. Each resolution is independent:
// one failing does not stop the others.
func (a *Aggregator) resolveAll(ctx context.Context, log *zap.Logger, token string) []slugResult {
	out := make([]slugResult, len(a.providers))
	a.each(func(i int) {
		name := a.providers[i].Name()
		slug, err := a.resolver.ResolveSlug(ctx, name, token)
		if err != nil {
			log.Warn("slug resolution failed", zap.String("provider", name), zap.Error(err))
		}
		out[i] = slugResult{slug: slug, err: err}
	})
	return out
}

// each calls fn for every provider index, sequentially by default. In
// concurrent mode each call writes only its own index, so no locking is
// needed.
func (a *Aggregator) each(fn func(i int)) {
	if !a.concurrent {
		for i := range a.providers {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	for i := range a.providers {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Aggregator) buildLogger(kind, token string) *zap.Logger {
	return a.log.With(
		zap.String("build_id", uuid.NewString()),
		zap.String("report", kind),
		zap.String("token", token),
	)
}
