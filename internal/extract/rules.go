package extract

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/tokenomics-cli/internal/dom"
	"github.com/sells-group/tokenomics-cli/internal/model"
)

//go:embed rules.yaml
var embeddedRules []byte

// Pick values select which match of a field's final path step is used.
const (
	PickFirst = "first"
	PickLast  = "last"
)

// Text modes control how a matched node is turned into a string.
const (
	TextNormal    = "normal"
	TextStripped  = "stripped"
	TextFirstWord = "first_word"
)

// Rules is the full matching table, one entry per provider section.
type Rules struct {
	Cryptorank CryptorankRules `yaml:"cryptorank"`
	Dropstab   DropstabRules   `yaml:"dropstab"`
}

// CryptorankRules covers the cryptorank ICO and vesting pages.
type CryptorankRules struct {
	FundingRounds SectionRule `yaml:"funding_rounds"`
	Investors     SectionRule `yaml:"investors"`
	Distribution  SectionRule `yaml:"distribution"`
	Allocations   SectionRule `yaml:"allocations"`
}

// DropstabRules covers the dropstab fundraising and vesting tabs.
type DropstabRules struct {
	FundingRounds SectionRule `yaml:"funding_rounds"`
	Investors     SectionRule `yaml:"investors"`
	VestingLocks  SectionRule `yaml:"vesting_locks"`
}

// SectionRule locates one section of a page and the repeated blocks inside
// it. Scope resolution runs heading, container, next, within in that order;
// any step that is set and finds nothing makes the section empty.
type SectionRule struct {
	Heading   dom.Match            `yaml:"heading"`
	Container dom.Match            `yaml:"container"`
	Next      dom.Match            `yaml:"next"`
	Within    dom.Match            `yaml:"within"`
	Item      dom.Match            `yaml:"item"`
	MinCells  int                  `yaml:"min_cells"`
	Fields    map[string]FieldRule `yaml:"fields"`
}

// FieldRule locates one value inside a block.
type FieldRule struct {
	Cell *int        `yaml:"cell"`
	Path []dom.Match `yaml:"path"`
	Pick string      `yaml:"pick"`
	Text string      `yaml:"text"`
}

// block is one repeated card or row. cells is set for table rows only.
type block struct {
	node  *html.Node
	cells []*html.Node
}

// blocks returns the section's repeated blocks, or nil if the section is
// absent from doc.
func (r SectionRule) blocks(doc *html.Node) []block {
	scope := doc
	if !r.Heading.IsZero() {
		scope = dom.Find(doc, r.Heading)
		if scope == nil {
			return nil
		}
		if !r.Container.IsZero() {
			scope = dom.Closest(scope, r.Container)
			if scope == nil {
				return nil
			}
		}
	}
	if !r.Next.IsZero() {
		scope = dom.FindNext(scope, r.Next)
		if scope == nil {
			return nil
		}
	}
	if !r.Within.IsZero() {
		scope = dom.Find(scope, r.Within)
		if scope == nil {
			return nil
		}
	}

	var out []block
	for _, n := range dom.FindAll(scope, r.Item) {
		b := block{node: n}
		if r.MinCells > 0 {
			b.cells = dom.FindAll(n, dom.Match{Tag: "td"})
			if len(b.cells) < r.MinCells {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// field returns the named value of b, or the sentinel.
func (r SectionRule) field(b block, name string) string {
	f, ok := r.Fields[name]
	if !ok {
		return model.NotAvailable
	}
	nodes := f.nodes(b)
	if len(nodes) == 0 {
		return model.NotAvailable
	}
	n := nodes[0]
	if f.Pick == PickLast {
		n = nodes[len(nodes)-1]
	}
	return model.OrNA(f.text(n))
}

// list returns every non-empty value the named field matches in b.
func (r SectionRule) list(b block, name string) []string {
	f, ok := r.Fields[name]
	if !ok {
		return nil
	}
	var out []string
	for _, n := range f.nodes(b) {
		if v := f.text(n); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (f FieldRule) nodes(b block) []*html.Node {
	root := b.node
	if f.Cell != nil {
		if *f.Cell < 0 || *f.Cell >= len(b.cells) {
			return nil
		}
		root = b.cells[*f.Cell]
	}
	if len(f.Path) == 0 {
		return []*html.Node{root}
	}
	last := len(f.Path) - 1
	parent := dom.FindPath(root, f.Path[:last]...)
	if parent == nil {
		return nil
	}
	return dom.FindAll(parent, f.Path[last])
}

func (f FieldRule) text(n *html.Node) string {
	switch f.Text {
	case TextStripped:
		return dom.StrippedText(n)
	case TextFirstWord:
		words := splitWords(dom.Text(n))
		if len(words) == 0 {
			return ""
		}
		return words[0]
	default:
		return dom.Text(n)
	}
}

// Validate checks the table for rules the engine cannot run.
func (r Rules) Validate() error {
	sections := map[string]SectionRule{
		"cryptorank.funding_rounds": r.Cryptorank.FundingRounds,
		"cryptorank.investors":      r.Cryptorank.Investors,
		"cryptorank.distribution":   r.Cryptorank.Distribution,
		"cryptorank.allocations":    r.Cryptorank.Allocations,
		"dropstab.funding_rounds":   r.Dropstab.FundingRounds,
		"dropstab.investors":        r.Dropstab.Investors,
		"dropstab.vesting_locks":    r.Dropstab.VestingLocks,
	}
	for name, s := range sections {
		if s.Item.IsZero() {
			return eris.Errorf("extract: %s: item match is required", name)
		}
		if !s.Container.IsZero() && s.Heading.IsZero() {
			return eris.Errorf("extract: %s: container requires a heading", name)
		}
		if s.MinCells < 0 {
			return eris.Errorf("extract: %s: min_cells must not be negative", name)
		}
		for field, f := range s.Fields {
			switch f.Pick {
			case "", PickFirst, PickLast:
			default:
				return eris.Errorf("extract: %s.%s: unknown pick %q", name, field, f.Pick)
			}
			switch f.Text {
			case "", TextNormal, TextStripped, TextFirstWord:
			default:
				return eris.Errorf("extract: %s.%s: unknown text mode %q", name, field, f.Text)
			}
			if f.Cell != nil && s.MinCells == 0 {
				return eris.Errorf("extract: %s.%s: cell requires min_cells", name, field)
			}
		}
	}
	return nil
}

// DefaultRules returns the embedded rule table.
func DefaultRules() (Rules, error) {
	return parseRules(nil)
}

// LoadRules reads an override file and layers it over the embedded table.
// Sections present in the file replace the embedded ones key by key; an empty
// path returns the embedded table unchanged.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, eris.Wrapf(err, "extract: read rules file %s", path)
	}
	return parseRules(data)
}

func parseRules(override []byte) (Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(embeddedRules, &r); err != nil {
		return Rules{}, eris.Wrap(err, "extract: parse embedded rules")
	}
	if len(override) > 0 {
		if err := yaml.Unmarshal(override, &r); err != nil {
			return Rules{}, eris.Wrap(err, "extract: parse rules override")
		}
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}
