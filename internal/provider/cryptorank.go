package provider

import (
	"context"
	"net/url"

	"github.com/sells-group/tokenomics-cli/internal/extract"
	"github.com/sells-group/tokenomics-cli/internal/model"
)

const (
	cryptorankBaseURL         = "https://cryptorank.io"
	cryptorankICOSelector     = "#root-container > section > div.sc-42c5ae26-4.hvBTer"
	cryptorankVestingSelector = "#root-container > section"
)

// Cryptorank reads the ICO and vesting pages of cryptorank.io.
type Cryptorank struct {
	base
	ext *extract.Extractor
}

// NewCryptorank creates the cryptorank provider.
func NewCryptorank(r Renderer, ext *extract.Extractor, opts ...Option) *Cryptorank {
	return &Cryptorank{base: newBase("cryptorank", r, opts), ext: ext}
}

// Name implements Provider.
func (c *Cryptorank) Name() string { return c.name }

// Label implements Provider.
func (c *Cryptorank) Label() string { return "Cryptorank" }

// Fundraising implements Provider using the ICO page.
func (c *Cryptorank) Fundraising(ctx context.Context, slug string) (*model.Fundraising, error) {
	u := cryptorankBaseURL + "/ico/" + url.PathEscape(slug)
	doc, err := c.fetch(ctx, "fundraising", slug, u, cryptorankICOSelector)
	if err != nil {
		return nil, err
	}
	return &model.Fundraising{
		Rounds:    c.ext.CryptorankFundingRounds(doc),
		Investors: c.ext.CryptorankInvestors(doc),
	}, nil
}

// Vesting implements Provider.
func (c *Cryptorank) Vesting(ctx context.Context, slug string) (*model.Vesting, error) {
	u := cryptorankBaseURL + "/price/" + url.PathEscape(slug) + "/vesting"
	doc, err := c.fetch(ctx, "vesting", slug, u, cryptorankVestingSelector)
	if err != nil {
		return nil, err
	}
	return &model.Vesting{
		Distribution: c.ext.CryptorankDistribution(doc),
		Allocations:  c.ext.CryptorankAllocations(doc),
	}, nil
}
