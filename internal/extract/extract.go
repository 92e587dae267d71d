// Package extract turns rendered provider pages into record lists.
//
// All element matching lives in the rule table (rules.yaml); the functions
// here only map matched values onto model records. A section that cannot be
// located yields an empty slice, never an error.
package extract

import (
	"golang.org/x/net/html"

	"github.com/sells-group/tokenomics-cli/internal/model"
)

// Extractor applies a rule table to parsed documents. It is safe for
// concurrent use; the rules are never mutated after construction.
type Extractor struct {
	rules Rules
}

// New returns an Extractor over rules.
func New(rules Rules) *Extractor {
	return &Extractor{rules: rules}
}

// Rules returns the table the extractor runs.
func (e *Extractor) Rules() Rules {
	return e.rules
}

// CryptorankFundingRounds extracts the "Funding Rounds" cards.
func (e *Extractor) CryptorankFundingRounds(doc *html.Node) []model.FundingRound {
	r := e.rules.Cryptorank.FundingRounds
	var out []model.FundingRound
	for _, b := range r.blocks(doc) {
		out = append(out, model.FundingRound{
			Type:     r.field(b, "type"),
			Date:     r.field(b, "date"),
			Raised:   r.field(b, "raised"),
			Price:    r.field(b, "price"),
			ROI:      r.field(b, "roi"),
			ATHROI:   r.field(b, "ath_roi"),
			Platform: r.field(b, "platform"),
		})
	}
	return out
}

// CryptorankInvestors extracts the "Investors and Backers" table.
func (e *Extractor) CryptorankInvestors(doc *html.Node) []model.Investor {
	return investors(e.rules.Cryptorank.Investors, doc)
}

// CryptorankDistribution extracts the "Total Distribution Progress" entries.
func (e *Extractor) CryptorankDistribution(doc *html.Node) []model.DistributionEntry {
	r := e.rules.Cryptorank.Distribution
	var out []model.DistributionEntry
	for _, b := range r.blocks(doc) {
		tokens, usd := SplitAmount(r.field(b, "amount"))
		out = append(out, model.DistributionEntry{
			Type:        r.field(b, "type"),
			Percentage:  r.field(b, "percentage"),
			TokenAmount: tokens,
			USDAmount:   usd,
		})
	}
	return out
}

// CryptorankAllocations extracts the "Allocation" table.
func (e *Extractor) CryptorankAllocations(doc *html.Node) []model.AllocationEntry {
	r := e.rules.Cryptorank.Allocations
	var out []model.AllocationEntry
	for _, b := range r.blocks(doc) {
		out = append(out, model.AllocationEntry{
			Name:     r.field(b, "name"),
			Total:    r.field(b, "total"),
			Unlocked: r.field(b, "unlocked"),
			Locked:   r.field(b, "locked"),
		})
	}
	return out
}

// DropstabFundingRounds extracts the round cards of the fundraising tab.
// Dropstab shows no price, ROI or platform, so those stay the sentinel.
func (e *Extractor) DropstabFundingRounds(doc *html.Node) []model.FundingRound {
	r := e.rules.Dropstab.FundingRounds
	var out []model.FundingRound
	for _, b := range r.blocks(doc) {
		out = append(out, model.FundingRound{
			Type:     r.field(b, "type"),
			Date:     r.field(b, "date"),
			Raised:   r.field(b, "raised"),
			Price:    r.field(b, "price"),
			ROI:      r.field(b, "roi"),
			ATHROI:   r.field(b, "ath_roi"),
			Platform: r.field(b, "platform"),
		})
	}
	return out
}

// DropstabInvestors extracts the investor rows of the fundraising tab.
func (e *Extractor) DropstabInvestors(doc *html.Node) []model.Investor {
	return investors(e.rules.Dropstab.Investors, doc)
}

// DropstabVestingLocks extracts the allocation cards of the vesting tab.
func (e *Extractor) DropstabVestingLocks(doc *html.Node) []model.VestingSnapshot {
	r := e.rules.Dropstab.VestingLocks
	var out []model.VestingSnapshot
	for _, b := range r.blocks(doc) {
		out = append(out, model.VestingSnapshot{
			Title:       r.field(b, "title"),
			Unlocked:    r.field(b, "unlocked"),
			TotalSupply: r.field(b, "total_supply"),
			LockedValue: r.field(b, "locked_value"),
		})
	}
	return out
}

func investors(r SectionRule, doc *html.Node) []model.Investor {
	var out []model.Investor
	for _, b := range r.blocks(doc) {
		out = append(out, model.Investor{
			Name:   r.field(b, "name"),
			Tier:   r.field(b, "tier"),
			Type:   r.field(b, "type"),
			Stages: r.list(b, "stages"),
		})
	}
	return out
}
