package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const page = `<html><body>
<div class="sc-1 cards hvBTer">
  <h2 class="title">Funding <b>Rounds</b> 2024</h2>
  <div class="entry kDrqot x"><p class="eqjvBs">Seed</p></div>
  <div class="entry kDrqot y"><p class="eqjvBs">Series&nbsp;A</p></div>
</div>
<h2>Investors and Backers</h2>
<section><table><tbody><tr><td>a16z</td></tr></tbody></table></section>
<script>var h2 = "Funding Rounds";</script>
</body></html>`

func mustParse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := Parse(s)
	require.NoError(t, err)
	return doc
}

func TestFind_HeadingBySubstring(t *testing.T) {
	doc := mustParse(t, page)

	h := Find(doc, Match{Tag: "h2", Text: "Funding Rounds"})
	require.NotNil(t, h)
	assert.Equal(t, "Funding Rounds 2024", Text(h))

	assert.Nil(t, Find(doc, Match{Tag: "h2", Text: "funding rounds"}), "text match is case-sensitive")
	assert.Nil(t, Find(doc, Match{Tag: "h2", Text: "Team"}))
}

func TestClosest_ClassSubstring(t *testing.T) {
	doc := mustParse(t, page)
	h := Find(doc, Match{Tag: "h2", Text: "Funding Rounds"})

	parent := Closest(h, Match{Tag: "div", Class: "cards"})
	require.NotNil(t, parent)
	assert.True(t, HasClass(parent, "hvBTer"))

	assert.Nil(t, Closest(h, Match{Tag: "div", Class: "missing"}))
	assert.Nil(t, Closest(nil, Match{Tag: "div"}))
}

func TestFindAll(t *testing.T) {
	doc := mustParse(t, page)

	entries := FindAll(doc, Match{Tag: "div", Class: "kDrqot"})
	require.Len(t, entries, 2)

	first := FindPath(entries[0], Match{Tag: "p", Class: "eqjvBs"})
	require.NotNil(t, first)
	assert.Equal(t, "Seed", Text(first))

	second := FindPath(entries[1], Match{Tag: "p", Class: "eqjvBs"})
	assert.Equal(t, "Series A", Text(second), "nbsp normalised to a space")

	assert.Empty(t, FindAll(nil, Match{Tag: "div"}))
}

func TestFindPath_StopsOnMiss(t *testing.T) {
	doc := mustParse(t, page)
	assert.Nil(t, FindPath(doc, Match{Tag: "div", Class: "cards"}, Match{Tag: "span"}))
	assert.NotNil(t, FindPath(doc, Match{Tag: "div", Class: "cards"}, Match{Tag: "p"}))
}

func TestFindNext_DocumentOrder(t *testing.T) {
	doc := mustParse(t, page)
	h := Find(doc, Match{Tag: "h2", Text: "Investors"})
	require.NotNil(t, h)

	table := FindNext(h, Match{Tag: "table"})
	require.NotNil(t, table)
	assert.Equal(t, "a16z", Text(table))

	assert.Nil(t, FindNext(table, Match{Tag: "table"}))
}

func TestText_SkipsScripts(t *testing.T) {
	doc := mustParse(t, page)
	body := Find(doc, Match{Tag: "body"})
	assert.NotContains(t, Text(body), "var h2")
}

func TestStrippedText(t *testing.T) {
	doc := mustParse(t, `<table><tr><td> <span> 1,000 </span>
	<span>TOK</span> </td></tr></table>`)
	td := Find(doc, Match{Tag: "td"})
	require.NotNil(t, td)
	assert.Equal(t, "1,000TOK", StrippedText(td))
	assert.Equal(t, "1,000 TOK", Text(td))
}

func TestStrippedText_MultiLineNode(t *testing.T) {
	doc := mustParse(t, "<table><tr><td>Paradigm\n          Capital\t</td></tr></table>")
	td := Find(doc, Match{Tag: "td"})
	require.NotNil(t, td)
	assert.Equal(t, "Paradigm Capital", StrippedText(td))
}

func TestMatch_IsZero(t *testing.T) {
	assert.True(t, Match{}.IsZero())
	assert.False(t, Match{Tag: "div"}.IsZero())
}

func TestAttr(t *testing.T) {
	doc := mustParse(t, `<a href="/x" class="c">l</a>`)
	a := Find(doc, Match{Tag: "a"})
	v, ok := Attr(a, "href")
	assert.True(t, ok)
	assert.Equal(t, "/x", v)
	_, ok = Attr(a, "id")
	assert.False(t, ok)
}
