package report

import (
	"strings"

	"github.com/sells-group/tokenomics-cli/internal/model"
)

// Report banners.
const (
	FundraisingBanner = "========== Fundraising =========="
	VestingBanner     = "========== Vesting =========="
)

// UnavailablePrefix starts the line substituted for a failed provider.
const UnavailablePrefix = "data unavailable for this provider"

// SourceHeading labels one provider's block.
func SourceHeading(label string) string {
	return "## Source: " + label + " ##"
}

// Unavailable renders the line substituted for a provider that failed.
func Unavailable(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return UnavailablePrefix
	}
	return UnavailablePrefix + ": " + reason
}

// FundraisingSection renders a provider's fundraising data: investors first,
// then rounds.
func FundraisingSection(f model.Fundraising) string {
	return InvestorTable(f.Investors) + "\n" + FundingRounds(f.Rounds)
}

// VestingSection renders whichever vesting parts the provider reported.
func VestingSection(v model.Vesting) string {
	if v.Empty() {
		return "No vesting data found.\n"
	}
	var parts []string
	if len(v.Distribution) > 0 {
		parts = append(parts, Distribution(v.Distribution))
	}
	if len(v.Allocations) > 0 {
		parts = append(parts, AllocationTable(v.Allocations))
	}
	if len(v.Locks) > 0 {
		parts = append(parts, VestingLocks(v.Locks))
	}
	return strings.Join(parts, "\n")
}

// FundraisingReport joins provider outcomes under the fundraising banner in
// the order given.
func FundraisingReport(outcomes []model.Outcome[model.Fundraising]) string {
	blocks := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		body := Unavailable(o.Reason)
		if o.Available() {
			body = FundraisingSection(*o.Data)
		}
		blocks = append(blocks, SourceHeading(o.Label)+"\n"+body)
	}
	return joinReport(FundraisingBanner, blocks)
}

// VestingReport joins provider outcomes under the vesting banner in the order
// given.
func VestingReport(outcomes []model.Outcome[model.Vesting]) string {
	blocks := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		body := Unavailable(o.Reason)
		if o.Available() {
			body = VestingSection(*o.Data)
		}
		blocks = append(blocks, SourceHeading(o.Label)+"\n"+body)
	}
	return joinReport(VestingBanner, blocks)
}

func joinReport(banner string, blocks []string) string {
	var sb strings.Builder
	sb.WriteString(banner)
	sb.WriteString("\n")
	for _, b := range blocks {
		sb.WriteString(strings.TrimRight(b, "\n"))
		sb.WriteString("\n\n")
	}
	return sb.String()
}
