// Package report renders extracted records as Markdown-flavoured text.
//
// Every function is pure: the same input always yields byte-identical output.
// Column widths are nominal; values longer than a column overflow it rather
// than being truncated.
package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/tokenomics-cli/internal/model"
)

// Column widths of the fixed-width tables.
var (
	InvestorWidths   = []int{32, 7, 12, 23}
	AllocationWidths = []int{27, 6, 8, 6}
)

var (
	investorHeader   = []string{"Name", "Tier", "Type", "Stages"}
	allocationHeader = []string{"Name", "Total", "Unlocked", "Locked"}
)

// FundingRounds renders rounds as numbered paragraphs.
func FundingRounds(rounds []model.FundingRound) string {
	var sb strings.Builder
	sb.WriteString("**Funding Rounds, IEO and Launchpools**\n\n")
	if len(rounds) == 0 {
		sb.WriteString("No funding rounds found.\n")
		return sb.String()
	}
	for i, r := range rounds {
		fmt.Fprintf(&sb, "%d. **%s on %s**\n", i+1, r.Type, r.Platform)
		fmt.Fprintf(&sb, "   - **Date:** %s\n", r.Date)
		fmt.Fprintf(&sb, "   - **Raised:** %s\n", r.Raised)
		fmt.Fprintf(&sb, "   - **Token price:** %s\n", r.Price)
		fmt.Fprintf(&sb, "   - **ROI:** %s\n", r.ROI)
		fmt.Fprintf(&sb, "   - **ATH ROI:** %s\n", r.ATHROI)
	}
	return sb.String()
}

// InvestorTable renders investors as a fixed-width pipe table.
func InvestorTable(investors []model.Investor) string {
	var sb strings.Builder
	sb.WriteString("**Investors and Backers**\n\n")
	if len(investors) == 0 {
		sb.WriteString("No investors found.\n")
		return sb.String()
	}
	rows := make([][]string, 0, len(investors))
	for _, inv := range investors {
		rows = append(rows, []string{inv.Name, inv.Tier, inv.Type, inv.StageList()})
	}
	writeTable(&sb, InvestorWidths, investorHeader, rows)
	return sb.String()
}

// AllocationTable renders allocation entries as a fixed-width pipe table.
func AllocationTable(entries []model.AllocationEntry) string {
	var sb strings.Builder
	sb.WriteString("**Allocation**\n\n")
	if len(entries) == 0 {
		sb.WriteString("No allocation data found.\n")
		return sb.String()
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Total, e.Unlocked, e.Locked})
	}
	writeTable(&sb, AllocationWidths, allocationHeader, rows)
	return sb.String()
}

// Distribution renders distribution progress, one entry per line.
func Distribution(entries []model.DistributionEntry) string {
	var sb strings.Builder
	sb.WriteString("**Distribution Progress**\n\n")
	if len(entries) == 0 {
		sb.WriteString("No distribution data found.\n")
		return sb.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "Type: %s, Percentage: %s, Tokens: %s, USD equivalent: %s\n",
			e.Type, e.Percentage, e.TokenAmount, e.USDAmount)
	}
	return sb.String()
}

func writeTable(sb *strings.Builder, widths []int, header []string, rows [][]string) {
	writeRow(sb, widths, header)
	sb.WriteByte('|')
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteByte('|')
	}
	sb.WriteByte('\n')
	for _, r := range rows {
		writeRow(sb, widths, r)
	}
}

func writeRow(sb *strings.Builder, widths []int, cells []string) {
	sb.WriteByte('|')
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = strings.Join(strings.Fields(cells[i]), " ")
		}
		fmt.Fprintf(sb, " %-*s |", w, cell)
	}
	sb.WriteByte('\n')
}
