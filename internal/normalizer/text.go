package normalizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"shopmigrate/pkg/textutil"
)

var (
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
)

// StripHTML turns an HTML description into plain text. Line breaks become a
// space so adjacent words stay apart.
func StripHTML(s string) string {
	s = lineBreakTag.ReplaceAllString(s, " ")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	return textutil.CollapseWhitespace(s)
}

// Title lowercases s and uppercases only its first character.
func (n *Normalizer) Title(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	lower := cases.Lower(n.lang).String(s)
	r, size := utf8.DecodeRuneInString(lower)

	return string(unicode.ToUpper(r)) + lower[size:]
}
