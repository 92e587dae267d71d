package provider

import (
	"context"
	"net/url"

	"github.com/sells-group/tokenomics-cli/internal/extract"
	"github.com/sells-group/tokenomics-cli/internal/model"
)

const (
	dropstabBaseURL  = "https://dropstab.com/coins/"
	dropstabSelector = "#coin-tabs > div > section > div"
)

// Dropstab reads the fundraising and vesting tabs of dropstab.com.
type Dropstab struct {
	base
	ext *extract.Extractor
}

// NewDropstab creates the dropstab provider.
func NewDropstab(r Renderer, ext *extract.Extractor, opts ...Option) *Dropstab {
	return &Dropstab{base: newBase("dropstab", r, opts), ext: ext}
}

// Name implements Provider.
func (d *Dropstab) Name() string { return d.name }

// Label implements Provider.
func (d *Dropstab) Label() string { return "Dropstab" }

// Fundraising implements Provider.
func (d *Dropstab) Fundraising(ctx context.Context, slug string) (*model.Fundraising, error) {
	doc, err := d.fetch(ctx, "fundraising", slug, dropstabURL(slug, "fundraising"), dropstabSelector)
	if err != nil {
		return nil, err
	}
	return &model.Fundraising{
		Rounds:    d.ext.DropstabFundingRounds(doc),
		Investors: d.ext.DropstabInvestors(doc),
	}, nil
}

// Vesting implements Provider. Dropstab only reports per-category locks.
func (d *Dropstab) Vesting(ctx context.Context, slug string) (*model.Vesting, error) {
	doc, err := d.fetch(ctx, "vesting", slug, dropstabURL(slug, "vesting"), dropstabSelector)
	if err != nil {
		return nil, err
	}
	return &model.Vesting{Locks: d.ext.DropstabVestingLocks(doc)}, nil
}

func dropstabURL(slug, tab string) string {
	return dropstabBaseURL + url.PathEscape(slug) + "/" + tab
}
