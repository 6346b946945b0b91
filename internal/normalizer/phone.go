package normalizer

import (
	"strings"
	"unicode"
)

// minPhoneLength is the shortest result still considered a phone number.
const minPhoneLength = 6

// Phone rewrites a phone number to "+<country code><number>" where the country
// can be recognised. Anything of five characters or fewer gives false.
func (n *Normalizer) Phone(raw string) (string, bool) {
	var b strings.Builder

	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case unicode.IsSpace(r), strings.ContainsRune(`"'-./()`, r):
		default:
			n.log.Debug("Dropping phone character", "value", raw, "char", string(r))
		}
	}

	s := b.String()

	switch {
	case strings.HasPrefix(s, "+"):
	case strings.HasPrefix(s, "00"):
		s = "+" + s[2:]
	case len(s) == 10 && n.mobile[s[:3]]:
		s = "+" + n.defaultCode + s
	default:
		for _, cc := range n.callingCodes {
			if strings.HasPrefix(s, cc) && len(s) >= 11 {
				s = "+" + s
				break
			}
		}
	}

	if len(s) < minPhoneLength {
		if raw != "" {
			n.log.Warn("Discarding phone number", "value", raw)
		}

		return "", false
	}

	return s, true
}
