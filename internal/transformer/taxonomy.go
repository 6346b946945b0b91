package transformer

import (
	"strings"
	"unicode/utf8"

	"shopmigrate/pkg/textutil"
)

// DefaultRootCategory is the export's root sentinel segment.
const DefaultRootCategory = "Default Category"

const escapedSeparator = "\x00"

// TaxonomyRule maps a keyword to a taxonomy code.
type TaxonomyRule struct {
	Keyword string `yaml:"keyword"`
	Code    string `yaml:"code"`
}

type compiledRule struct {
	keyword string
	code    string
	depth   int
}

// Taxonomy picks a product classification code from free-text categories.
type Taxonomy struct {
	root        string
	defaultCode string
	rules       []compiledRule
}

// NewTaxonomy compiles rules. An empty root uses DefaultRootCategory.
func NewTaxonomy(rules []TaxonomyRule, defaultCode, root string) *Taxonomy {
	if root == "" {
		root = DefaultRootCategory
	}

	t := &Taxonomy{root: textutil.Fold(root), defaultCode: defaultCode}

	for _, r := range rules {
		kw := textutil.Fold(r.Keyword)
		if kw == "" || r.Code == "" {
			continue
		}

		t.rules = append(t.rules, compiledRule{
			keyword: kw,
			code:    r.Code,
			depth:   len(strings.Split(r.Code, "-")),
		})
	}

	return t
}

// DefaultCode is applied when no tag matches.
func (t *Taxonomy) DefaultCode() string {
	return t.defaultCode
}

// Segments splits a categories cell ("A/B, A/C") into deduplicated path
// segments. "\/" is kept inside a segment and rendered as " & ".
func (t *Taxonomy) Segments(categories string) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)

	categories = strings.ReplaceAll(categories, `\/`, escapedSeparator)

	for _, path := range strings.Split(categories, ",") {
		for _, seg := range strings.Split(path, "/") {
			seg = strings.ReplaceAll(seg, escapedSeparator, " & ")
			seg = textutil.CollapseWhitespace(seg)

			key := textutil.Fold(seg)
			if key == "" || key == t.root || seen[key] {
				continue
			}

			seen[key] = true
			out = append(out, seg)
		}
	}

	return out
}

// Resolve returns the most specific code matched by any tag. Deeper codes win,
// then longer tags, then earlier tags.
func (t *Taxonomy) Resolve(tags []string) string {
	bestCode := ""
	bestDepth, bestLen := 0, 0

	for _, tag := range tags {
		folded := textutil.Fold(tag)
		if folded == "" {
			continue
		}

		tagLen := utf8.RuneCountInString(folded)

		for _, r := range t.rules {
			if !strings.Contains(folded, r.keyword) {
				continue
			}

			if r.depth > bestDepth || (r.depth == bestDepth && tagLen > bestLen) {
				bestCode, bestDepth, bestLen = r.code, r.depth, tagLen
			}
		}
	}

	if bestCode == "" {
		return t.defaultCode
	}

	return bestCode
}
