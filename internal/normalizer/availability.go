package normalizer

import (
	"math/big"
	"strings"
)

// Availability maps a tier code to an on-hand quantity. The mapping is total
// and case-insensitive: unknown, empty or missing codes give 0.
func (n *Normalizer) Availability(code string) int {
	return n.availability[strings.ToUpper(strings.TrimSpace(code))]
}

// Quantity parses a numeric stock column such as "12" or "12.0000".
// Fractions are truncated; negative or unusable values give 0.
func (n *Normalizer) Quantity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	r, ok := new(big.Rat).SetString(strings.ReplaceAll(s, ",", "."))
	if !ok {
		n.log.Warn("Unusable quantity", "value", raw)
		return 0
	}

	if r.Sign() < 0 {
		return 0
	}

	q := new(big.Int).Quo(r.Num(), r.Denom())
	if !q.IsInt64() {
		n.log.Warn("Quantity out of range", "value", raw)
		return 0
	}

	return int(q.Int64())
}
