package report

import (
	"io"
	"slices"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/sells-group/tokenomics-cli/internal/model"
	"github.com/sells-group/tokenomics-cli/pkg/coinmarketcap"
)

// VestingLocks renders lock snapshots as a Markdown table.
func VestingLocks(locks []model.VestingSnapshot) string {
	md := markdown.NewMarkdown(io.Discard)
	md.PlainText("**Vesting Information**")
	md.PlainText("")
	if len(locks) == 0 {
		md.PlainText("No vesting locks found.")
		return md.String()
	}
	rows := make([][]string, 0, len(locks))
	for _, l := range locks {
		rows = append(rows, []string{l.Title, l.Unlocked, l.TotalSupply, l.LockedValue})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Unlocked", "Total supply", "Locked value"},
		Rows:   rows,
	})
	return md.String()
}

// Metadata renders a coin metadata record.
func Metadata(info *coinmarketcap.CoinInfo) string {
	md := markdown.NewMarkdown(io.Discard)
	if info == nil {
		md.PlainText("No metadata found.")
		return md.String()
	}

	md.H1(info.Name + " (" + info.Symbol + ")")
	md.PlainText("")

	platform := model.NotAvailable
	if info.Platform != nil && info.Platform.Name != "" {
		platform = info.Platform.Name
		if info.Platform.TokenAddress != "" {
			platform += " `" + info.Platform.TokenAddress + "`"
		}
	}
	tags := model.NotAvailable
	if len(info.Tags) > 0 {
		tags = strings.Join(info.Tags, ", ")
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Slug", model.OrNA(info.Slug)},
			{"Category", model.OrNA(info.Category)},
			{"Date added", model.OrNA(info.DateAdded)},
			{"Date launched", model.OrNA(info.DateLaunch)},
			{"Platform", platform},
			{"Tags", tags},
		},
	})
	md.PlainText("")

	if links := metadataLinks(info.URLs); len(links) > 0 {
		md.H2("Links")
		md.PlainText("")
		md.BulletList(links...)
		md.PlainText("")
	}

	md.H2("Description")
	md.PlainText("")
	md.PlainText(model.OrNA(info.Description))
	return md.String()
}

// metadataLinks flattens the URL map in a stable order.
func metadataLinks(urls map[string][]string) []string {
	kinds := make([]string, 0, len(urls))
	for k := range urls {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	var out []string
	for _, k := range kinds {
		for _, u := range urls[k] {
			if u == "" {
				continue
			}
			out = append(out, k+": "+markdown.Link(u, u))
		}
	}
	return out
}
