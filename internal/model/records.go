// Package model defines the records extracted from provider pages.
//
// Every field is free text: the source markup carries no typed values. Fields
// that could not be located hold NotAvailable instead of an empty string so
// that formatted output keeps a uniform shape.
package model

import "strings"

// NotAvailable is the sentinel for any field that could not be extracted.
const NotAvailable = "N/A"

// OrNA returns s trimmed, or NotAvailable when nothing is left.
func OrNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}

// FundingRound is one fundraising round, IEO or launchpool.
type FundingRound struct {
	Type     string `json:"type"`
	Date     string `json:"date"`
	Raised   string `json:"raised"`
	Price    string `json:"price"`
	ROI      string `json:"roi"`
	ATHROI   string `json:"ath_roi"`
	Platform string `json:"platform"`
}

// Investor is a fund or backer listed on a provider page.
type Investor struct {
	Name   string   `json:"name"`
	Tier   string   `json:"tier"`
	Type   string   `json:"type"`
	Stages []string `json:"stages"`
}

// StageList joins the investment stages, or returns NotAvailable if none.
func (i Investor) StageList() string {
	if len(i.Stages) == 0 {
		return NotAvailable
	}
	return strings.Join(i.Stages, ", ")
}

// DistributionEntry is one line of a token distribution progress block.
type DistributionEntry struct {
	Type        string `json:"type"`
	Percentage  string `json:"percentage"`
	TokenAmount string `json:"token_amount"`
	USDAmount   string `json:"usd_amount"`
}

// AllocationEntry is one row of an allocation table.
type AllocationEntry struct {
	Name     string `json:"name"`
	Total    string `json:"total"`
	Unlocked string `json:"unlocked"`
	Locked   string `json:"locked"`
}

// VestingSnapshot is the lock state of one allocation category.
type VestingSnapshot struct {
	Title       string `json:"title"`
	Unlocked    string `json:"unlocked"`
	TotalSupply string `json:"total_supply"`
	LockedValue string `json:"locked_value"`
}

// Fundraising groups everything a provider reports on its fundraising page.
type Fundraising struct {
	Rounds    []FundingRound `json:"rounds"`
	Investors []Investor     `json:"investors"`
}

// Vesting groups everything a provider reports on its vesting page. Providers
// fill only the parts their page carries.
type Vesting struct {
	Distribution []DistributionEntry `json:"distribution"`
	Allocations  []AllocationEntry   `json:"allocations"`
	Locks        []VestingSnapshot   `json:"locks"`
}

// Empty reports whether no vesting data was found at all.
func (v Vesting) Empty() bool {
	return len(v.Distribution) == 0 && len(v.Allocations) == 0 && len(v.Locks) == 0
}
