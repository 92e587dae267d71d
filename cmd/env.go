package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tokenomics-cli/internal/aggregate"
	"github.com/sells-group/tokenomics-cli/internal/browser"
	"github.com/sells-group/tokenomics-cli/internal/config"
	"github.com/sells-group/tokenomics-cli/internal/extract"
	"github.com/sells-group/tokenomics-cli/internal/provider"
	"github.com/sells-group/tokenomics-cli/internal/resilience"
	"github.com/sells-group/tokenomics-cli/internal/resolve"
	"github.com/sells-group/tokenomics-cli/pkg/coinmarketcap"
	"github.com/sells-group/tokenomics-cli/pkg/renderproxy"
	"github.com/sells-group/tokenomics-cli/pkg/serper"
)

// appEnv holds the clients and the aggregator needed by the commands.
type appEnv struct {
	Registry   *provider.Registry
	Aggregator *aggregate.Aggregator
	CMC        coinmarketcap.Client // nil unless the mode needs it

	browser *browser.Renderer // nil unless render.driver is rod
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.browser != nil {
		if err := e.browser.Close(); err != nil {
			zap.L().Warn("close browser", zap.Error(err))
		}
	}
}

// initEnv validates the config for mode and wires the providers, the slug
// resolver and the aggregator. Callers should defer env.Close().
func initEnv(c *config.Config, mode string) (*appEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}
	log := zap.L()
	env := &appEnv{}

	if c.CoinMarketCap.Key != "" {
		env.CMC = coinmarketcap.NewClient(c.CoinMarketCap.Key,
			coinmarketcap.WithBaseURL(c.CoinMarketCap.BaseURL))
	}
	if mode == "metadata" {
		return env, nil
	}

	rules, err := extract.LoadRules(c.Extract.RulesFile)
	if err != nil {
		return nil, eris.Wrap(err, "load extraction rules")
	}
	ext := extract.New(rules)

	var renderer provider.Renderer
	switch c.Render.Driver {
	case config.DriverRod:
		env.browser = browser.New(browser.Config{
			Bin:        c.Render.BrowserBin,
			ControlURL: c.Render.ControlURL,
			Headless:   c.Render.Headless,
		}, browser.WithLogger(log.Named("browser")))
		renderer = env.browser
	default:
		renderer = renderproxy.NewClient(
			renderproxy.WithBaseURL(c.Render.BaseURL),
			renderproxy.WithLogger(log.Named("renderproxy")),
		)
	}

	popts := []provider.Option{
		provider.WithTimeout(time.Duration(c.Render.TimeoutMS) * time.Millisecond),
		provider.WithLogger(log.Named("provider")),
	}
	env.Registry = provider.NewRegistry()
	env.Registry.Register(provider.NewDropstab(renderer, ext, popts...))
	env.Registry.Register(provider.NewCryptorank(renderer, ext, popts...))

	search := serper.NewClient(c.Search.Key,
		serper.WithBaseURL(c.Search.BaseURL),
		serper.WithRateLimit(c.Search.RatePerSec),
	)
	retry := resilience.DefaultPolicy()
	retry.MaxAttempts = c.Search.MaxAttempts
	resolver := resolve.New(search,
		resolve.WithRetry(retry),
		resolve.WithLogger(log.Named("resolve")),
	)

	env.Aggregator = aggregate.New(resolver, env.Registry.All(),
		aggregate.WithLogger(log.Named("aggregate")),
		aggregate.WithConcurrency(c.Report.Concurrent),
	)
	return env, nil
}
