// Package dom holds the node helpers used by the section extractors. Pages are
// rendered by a frontend build that emits generated class names, so element
// matching is by tag plus class-attribute substring, never by class equality.
package dom

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parse parses an HTML document.
func Parse(doc string) (*html.Node, error) {
	n, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, eris.Wrap(err, "dom: parse html")
	}
	return n, nil
}

// Match selects element nodes. Empty fields match anything: Tag is compared
// exactly, Class is a substring of the class attribute and Text is a
// case-sensitive substring of the element's text.
type Match struct {
	Tag   string `yaml:"tag"`
	Class string `yaml:"class"`
	Text  string `yaml:"text"`
}

// IsZero reports whether the match has no constraints.
func (m Match) IsZero() bool {
	return m.Tag == "" && m.Class == "" && m.Text == ""
}

// Matches reports whether n is an element satisfying m.
func (m Match) Matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if m.Tag != "" && n.Data != m.Tag {
		return false
	}
	if m.Class != "" && !HasClass(n, m.Class) {
		return false
	}
	if m.Text != "" && !strings.Contains(Text(n), m.Text) {
		return false
	}
	return true
}

// HasClass reports whether the class attribute of n contains fragment.
func HasClass(n *html.Node, fragment string) bool {
	class, ok := Attr(n, "class")
	return ok && strings.Contains(class, fragment)
}

// Attr returns the value of attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Find returns the first descendant of root matching m in document order.
func Find(root *html.Node, m Match) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if m.Matches(c) {
			return c
		}
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of root matching m in document order.
func FindAll(root *html.Node, m Match) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if m.Matches(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// FindPath descends through successive matches, each searched within the
// previous result. It returns nil as soon as a step finds nothing.
func FindPath(root *html.Node, path ...Match) *html.Node {
	n := root
	for _, m := range path {
		n = Find(n, m)
		if n == nil {
			return nil
		}
	}
	return n
}

// Closest returns the nearest ancestor of n (excluding n) matching m.
func Closest(n *html.Node, m Match) *html.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if m.Matches(p) {
			return p
		}
	}
	return nil
}

// FindNext returns the first element after n in document order matching m.
// Descendants of n come first, as they follow n's start tag.
func FindNext(n *html.Node, m Match) *html.Node {
	for cur := nextInOrder(n); cur != nil; cur = nextInOrder(cur) {
		if m.Matches(cur) {
			return cur
		}
	}
	return nil
}

func nextInOrder(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.NextSibling != nil {
			return cur.NextSibling
		}
	}
	return nil
}

// Text returns the normalised text content of n: NFKC-normalised (so
// non-breaking spaces become spaces), whitespace runs collapsed, trimmed.
func Text(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb, false)
	return strings.Join(strings.Fields(norm.NFKC.String(sb.String())), " ")
}

// StrippedText collapses whitespace inside every text node, trims it, and
// concatenates the nodes with no separator. Use it where markup splits a
// value across inline elements.
func StrippedText(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb, true)
	return norm.NFKC.String(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder, strip bool) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		if strip {
			sb.WriteString(strings.Join(strings.Fields(n.Data), " "))
		} else {
			sb.WriteString(n.Data)
		}
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb, strip)
	}
}
