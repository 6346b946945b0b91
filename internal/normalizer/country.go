package normalizer

import (
	"strings"
	"unicode"

	"shopmigrate/pkg/textutil"
)

// Country resolves a country name to ISO alpha-2. A two-letter input is
// returned uppercased. Otherwise the synonym table is consulted by exact
// folded match, then by containment. Unknown names give false and a warning.
func (n *Normalizer) Country(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if len([]rune(s)) == 2 && isLetters(s) {
		return strings.ToUpper(s), true
	}

	key := textutil.Fold(s)
	if iso, ok := n.countries[key]; ok {
		return iso, true
	}

	for _, name := range n.countryKeys {
		if (len(name) >= 3 && strings.Contains(key, name)) ||
			(len(key) >= 4 && strings.Contains(name, key)) {
			return n.countries[name], true
		}
	}

	n.log.Warn("Unknown country", "value", raw)

	return "", false
}

// CountryName returns the ISO code for an exact synonym match only, without
// logging. Address parsing uses it to tell a country part from a city.
func (n *Normalizer) CountryName(raw string) (string, bool) {
	iso, ok := n.countries[textutil.Fold(raw)]

	return iso, ok
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}

	return true
}
