package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tokenomics-cli/internal/model"
	"github.com/sells-group/tokenomics-cli/pkg/coinmarketcap"
)

var sampleInvestors = []model.Investor{
	{Name: "a16z", Tier: "1", Type: "Venture", Stages: []string{"Seed", "Series A"}},
	{Name: "Jane Doe", Tier: model.NotAvailable, Type: "Angel"},
	{Name: "A Fund With An Unusually Long Name That Overflows", Tier: "2", Type: "Venture", Stages: []string{"Private"}},
}

var sampleRounds = []model.FundingRound{
	{Type: "Seed", Date: "Jan 12, 2021", Raised: "$5.00M", Price: "$0.05", ROI: "12.3x", ATHROI: "40x", Platform: model.NotAvailable},
	{Type: "IEO", Date: "Mar 3, 2021", Raised: "$1.20M", Price: model.NotAvailable, ROI: model.NotAvailable, ATHROI: model.NotAvailable, Platform: "Binance Launchpad"},
}

var sampleAllocations = []model.AllocationEntry{
	{Name: "Team", Total: "20%", Unlocked: "5%", Locked: "15%"},
	{Name: "Investors", Total: "15%", Unlocked: "15%", Locked: "0%"},
}

func TestInvestorTable_Layout(t *testing.T) {
	out := InvestorTable(sampleInvestors[:1])

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "**Investors and Backers**", lines[0])
	assert.Equal(t, "| Name                             | Tier    | Type         | Stages                  |", lines[2])
	assert.Equal(t, "|----------------------------------|---------|--------------|-------------------------|", lines[3])
	assert.Equal(t, "| a16z                             | 1       | Venture      | Seed, Series A          |", lines[4])
}

func TestInvestorTable_OverflowNotTruncated(t *testing.T) {
	out := InvestorTable(sampleInvestors)
	assert.Contains(t, out, "| A Fund With An Unusually Long Name That Overflows | 2       |")
}

func TestInvestorTable_RoundTrip(t *testing.T) {
	header, rows := ParseTable(InvestorTable(sampleInvestors))

	assert.Equal(t, []string{"Name", "Tier", "Type", "Stages"}, header)
	require.Len(t, rows, len(sampleInvestors))
	for i, inv := range sampleInvestors {
		assert.Equal(t, []string{inv.Name, inv.Tier, inv.Type, inv.StageList()}, rows[i])
	}
}

func TestAllocationTable_RoundTrip(t *testing.T) {
	out := AllocationTable(sampleAllocations)
	assert.Contains(t, out, "| Team                        | 20%    | 5%       | 15%    |")

	header, rows := ParseTable(out)
	assert.Equal(t, []string{"Name", "Total", "Unlocked", "Locked"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Investors", "15%", "15%", "0%"}, rows[1])
}

func TestFundingRounds(t *testing.T) {
	out := FundingRounds(sampleRounds)

	assert.Contains(t, out, "1. **Seed on N/A**\n   - **Date:** Jan 12, 2021\n   - **Raised:** $5.00M\n")
	assert.Contains(t, out, "2. **IEO on Binance Launchpad**\n")
	assert.Contains(t, out, "   - **ATH ROI:** 40x\n")
}

func TestFormatters_Empty(t *testing.T) {
	assert.Contains(t, FundingRounds(nil), "No funding rounds found.")
	assert.Contains(t, InvestorTable(nil), "No investors found.")
	assert.Contains(t, AllocationTable(nil), "No allocation data found.")
	assert.Contains(t, Distribution(nil), "No distribution data found.")
	assert.Contains(t, VestingLocks(nil), "No vesting locks found.")

	header, rows := ParseTable(InvestorTable(nil))
	assert.Nil(t, header)
	assert.Nil(t, rows)
}

func TestFormatters_Idempotent(t *testing.T) {
	v := model.Vesting{
		Distribution: []model.DistributionEntry{{Type: "Unlocked", Percentage: "45%", TokenAmount: "1,000 TOK", USDAmount: "$500"}},
		Allocations:  sampleAllocations,
		Locks:        []model.VestingSnapshot{{Title: "Team", Unlocked: "1M", TotalSupply: "10M", LockedValue: "$9M"}},
	}
	f := model.Fundraising{Rounds: sampleRounds, Investors: sampleInvestors}

	assert.Equal(t, VestingSection(v), VestingSection(v))
	assert.Equal(t, FundraisingSection(f), FundraisingSection(f))
}

func TestDistribution(t *testing.T) {
	out := Distribution([]model.DistributionEntry{
		{Type: "Unlocked", Percentage: "45%", TokenAmount: "1,000 TOK", USDAmount: "$500"},
	})
	assert.Contains(t, out, "Type: Unlocked, Percentage: 45%, Tokens: 1,000 TOK, USD equivalent: $500\n")
}

func TestVestingLocks(t *testing.T) {
	out := VestingLocks([]model.VestingSnapshot{
		{Title: "Team", Unlocked: "12.5M", TotalSupply: "100M", LockedValue: "$4.1M"},
	})
	for _, want := range []string{"Vesting Information", "Team", "12.5M", "100M", "$4.1M"} {
		assert.Contains(t, out, want)
	}
}

func TestVestingSection(t *testing.T) {
	assert.Equal(t, "No vesting data found.\n", VestingSection(model.Vesting{}))

	out := VestingSection(model.Vesting{Allocations: sampleAllocations})
	assert.Contains(t, out, "**Allocation**")
	assert.NotContains(t, out, "Distribution Progress")
	assert.NotContains(t, out, "Vesting Information")
}

func TestFundraisingSection_InvestorsBeforeRounds(t *testing.T) {
	out := FundraisingSection(model.Fundraising{Rounds: sampleRounds, Investors: sampleInvestors})
	assert.Less(t, strings.Index(out, "Investors and Backers"), strings.Index(out, "Funding Rounds"))
}

func TestSourceHeadingAndUnavailable(t *testing.T) {
	assert.Equal(t, "## Source: Cryptorank ##", SourceHeading("Cryptorank"))
	assert.Equal(t, "data unavailable for this provider: render proxy returned 500", Unavailable("render proxy returned 500"))
	assert.Equal(t, "data unavailable for this provider", Unavailable(" "))
}

func TestParseTable_StopsAtFirstTable(t *testing.T) {
	text := "intro\n| A | B |\n|---|---|\n| 1 | 2 |\n\n| C |\n|---|\n| 3 |\n"
	header, rows := ParseTable(text)
	assert.Equal(t, []string{"A", "B"}, header)
	assert.Equal(t, [][]string{{"1", "2"}}, rows)
}

func TestMetadata(t *testing.T) {
	info := &coinmarketcap.CoinInfo{
		Name:        "Ethereum",
		Symbol:      "ETH",
		Slug:        "ethereum",
		Category:    "coin",
		Description: "Ethereum is a smart contract platform.",
		DateAdded:   "2015-08-07T00:00:00.000Z",
		Tags:        []string{"pos", "smart-contracts"},
		URLs: map[string][]string{
			"website":  {"https://ethereum.org/"},
			"explorer": {"https://etherscan.io/", ""},
		},
	}
	out := Metadata(info)

	assert.Contains(t, out, "# Ethereum (ETH)")
	assert.Contains(t, out, "pos, smart-contracts")
	assert.Contains(t, out, "## Links")
	assert.Less(t, strings.Index(out, "explorer: "), strings.Index(out, "website: "))
	assert.Contains(t, out, "[https://etherscan.io/](https://etherscan.io/)")
	assert.Contains(t, out, "Ethereum is a smart contract platform.")
	assert.Equal(t, out, Metadata(info))

	assert.Contains(t, Metadata(nil), "No metadata found.")
}

func TestMetadata_MissingFields(t *testing.T) {
	out := Metadata(&coinmarketcap.CoinInfo{Name: "Tok", Symbol: "TOK"})
	assert.NotContains(t, out, "## Links")
	assert.Contains(t, out, model.NotAvailable)
}

func TestFundraisingReport(t *testing.T) {
	out := FundraisingReport([]model.Outcome[model.Fundraising]{
		model.Ok("dropstab", "Dropstab", "ethereum", &model.Fundraising{Investors: sampleInvestors[:1]}),
		model.Unavailable[model.Fundraising]("cryptorank", "Cryptorank", "ethereum", "render failed with status 500"),
	})

	assert.True(t, strings.HasPrefix(out, FundraisingBanner+"\n## Source: Dropstab ##\n"))
	assert.Contains(t, out, "| a16z ")
	assert.Contains(t, out, "## Source: Cryptorank ##\ndata unavailable for this provider: render failed with status 500\n")
	assert.Less(t, strings.Index(out, "Dropstab"), strings.Index(out, "Cryptorank"))
}

func TestVestingReport(t *testing.T) {
	outcomes := []model.Outcome[model.Vesting]{
		model.Ok("dropstab", "Dropstab", "ethereum", &model.Vesting{}),
		model.Ok("cryptorank", "Cryptorank", "ethereum", &model.Vesting{Allocations: sampleAllocations}),
	}
	out := VestingReport(outcomes)

	assert.True(t, strings.HasPrefix(out, VestingBanner+"\n"))
	assert.Contains(t, out, "## Source: Dropstab ##\nNo vesting data found.\n")
	assert.Contains(t, out, "## Source: Cryptorank ##\n**Allocation**")
	assert.Equal(t, out, VestingReport(outcomes))
	assert.Equal(t, VestingBanner+"\n", VestingReport(nil))
}

func TestInvestorTable_NewlineInCellStaysOnOneRow(t *testing.T) {
	out := InvestorTable([]model.Investor{{Name: "Paradigm\n   Capital", Tier: "1", Type: "VC", Stages: []string{"Seed"}}})

	_, rows := ParseTable(out)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Paradigm Capital", "1", "VC", "Seed"}, rows[0])
}
