package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tokenomics-cli/internal/dom"
	"github.com/sells-group/tokenomics-cli/internal/model"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultRules(t *testing.T) {
	r, err := DefaultRules()
	require.NoError(t, err)

	assert.Equal(t, dom.Match{Tag: "h2", Text: "Funding Rounds"}, r.Cryptorank.FundingRounds.Heading)
	assert.Equal(t, 4, r.Cryptorank.Investors.MinCells)
	assert.Equal(t, 5, r.Dropstab.Investors.MinCells)
	assert.True(t, r.Dropstab.FundingRounds.Heading.IsZero())
	assert.Equal(t, PickLast, r.Dropstab.VestingLocks.Fields["total_supply"].Pick)
}

func TestLoadRules_EmptyPathIsDefault(t *testing.T) {
	def, err := DefaultRules()
	require.NoError(t, err)
	got, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, def, got)
}

func TestLoadRules_OverrideLayersOverEmbedded(t *testing.T) {
	path := writeRules(t, `
cryptorank:
  funding_rounds:
    item: {tag: div, class: roundCard}
    fields:
      type: {path: [{tag: h3}]}
`)
	r, err := LoadRules(path)
	require.NoError(t, err)

	fr := r.Cryptorank.FundingRounds
	assert.Equal(t, "roundCard", fr.Item.Class)
	assert.Equal(t, "Funding Rounds", fr.Heading.Text, "untouched keys keep embedded values")
	assert.Equal(t, "h3", fr.Fields["type"].Path[0].Tag)
	assert.Contains(t, fr.Fields, "raised")

	doc := parse(t, `<div class="cards"><h2>Funding Rounds</h2><div class="roundCard"><h3>Seed</h3></div></div>`)
	rounds := New(r).CryptorankFundingRounds(doc)
	require.Len(t, rounds, 1)
	assert.Equal(t, "Seed", rounds[0].Type)
	assert.Equal(t, model.NotAvailable, rounds[0].Raised)

	def, err := DefaultRules()
	require.NoError(t, err)
	assert.Equal(t, "eqjvBs", def.Cryptorank.FundingRounds.Fields["type"].Path[0].Class, "override does not leak into the embedded table")
}

func TestLoadRules_Errors(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadRules(writeRules(t, "cryptorank: [not, a, map]"))
	assert.Error(t, err)

	_, err = LoadRules(writeRules(t, `
dropstab:
  investors:
    fields:
      name: {cell: 1, pick: middle}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pick")
}

func TestRules_Validate(t *testing.T) {
	base, err := DefaultRules()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Rules)
		want   string
	}{
		{
			name:   "missing item",
			mutate: func(r *Rules) { r.Dropstab.VestingLocks.Item = dom.Match{} },
			want:   "item match is required",
		},
		{
			name: "container without heading",
			mutate: func(r *Rules) {
				r.Dropstab.FundingRounds.Container = dom.Match{Tag: "div"}
			},
			want: "container requires a heading",
		},
		{
			name: "unknown text mode",
			mutate: func(r *Rules) {
				r.Cryptorank.Distribution.Fields = map[string]FieldRule{"type": {Text: "upper"}}
			},
			want: "unknown text mode",
		},
		{
			name: "cell without min_cells",
			mutate: func(r *Rules) {
				cell := 0
				r.Dropstab.VestingLocks.Fields = map[string]FieldRule{"title": {Cell: &cell}}
			},
			want: "cell requires min_cells",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DefaultRules()
			require.NoError(t, err)
			tt.mutate(&r)
			err = r.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, base.Validate())
}

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		in, tokens, usd string
	}{
		{"1,000 TOK ~ $500", "1,000 TOK", "$500"},
		{"1,000 TOK", "1,000 TOK", model.NotAvailable},
		{" ~ $500", model.NotAvailable, "$500"},
		{"1 TOK ~ $2 ~ $3", "1 TOK", "$2 ~ $3"},
		{model.NotAvailable, model.NotAvailable, model.NotAvailable},
		{"1,000 TOK~$500", "1,000 TOK~$500", model.NotAvailable},
	}
	for _, tt := range tests {
		tokens, usd := SplitAmount(tt.in)
		assert.Equal(t, tt.tokens, tokens, tt.in)
		assert.Equal(t, tt.usd, usd, tt.in)
	}
}
