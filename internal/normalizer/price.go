package normalizer

import (
	"errors"
	"math/big"
	"strings"
	"unicode"
)

// Price parsing errors.
var (
	ErrEmptyPrice      = errors.New("empty price")
	ErrNonNumericPrice = errors.New("non-numeric price")
	ErrNegativePrice   = errors.New("negative price")
)

var currencyCodes = []string{"EUR", "USD", "GBP", "CHF", "JPY", "CAD", "AUD", "SEK", "NOK", "DKK", "PLN", "CZK", "HUF"}

// Price returns raw as a two-decimal string. It returns false for empty,
// non-numeric or negative input and logs a warning.
func (n *Normalizer) Price(raw string) (string, bool) {
	r, err := ParseMoney(raw)
	if err != nil {
		if !errors.Is(err, ErrEmptyPrice) {
			n.log.Warn("Unusable price", "value", raw, "error", err)
		}

		return "", false
	}

	return r.FloatString(2), true
}

// NormalizePrice is Price without logging.
func NormalizePrice(raw string) (string, bool) {
	r, err := ParseMoney(raw)
	if err != nil {
		return "", false
	}

	return r.FloatString(2), true
}

// ParseMoney parses a locale-formatted amount. When both separators are
// present the last one is the decimal mark. A lone comma is decimal only when
// exactly two digits follow it. Several dots are thousands separators unless
// the final group has at most two digits.
func ParseMoney(raw string) (*big.Rat, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrEmptyPrice
	}

	upper := strings.ToUpper(s)
	for _, code := range currencyCodes {
		upper = strings.ReplaceAll(upper, code, "")
	}

	var (
		b        strings.Builder
		negative bool
	)

	for _, r := range upper {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == '-' || r == '−':
			negative = true
		case r == '+', r == '\'', r == '"', r == '’', unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
		default:
			return nil, ErrNonNumericPrice
		}
	}

	num := b.String()
	if !strings.ContainsAny(num, "0123456789") {
		return nil, ErrNonNumericPrice
	}

	num, err := canonicalSeparators(num)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}

	num = strings.TrimSuffix(num, ".")

	r, ok := new(big.Rat).SetString(num)
	if !ok {
		return nil, ErrNonNumericPrice
	}

	if negative && r.Sign() != 0 {
		return nil, ErrNegativePrice
	}

	return r, nil
}

// canonicalSeparators rewrites num so that "." is the only, decimal, mark.
func canonicalSeparators(num string) (string, error) {
	lastComma := strings.LastIndex(num, ",")
	lastDot := strings.LastIndex(num, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimal, thousands := ".", ","
		if lastComma > lastDot {
			decimal, thousands = ",", "."
		}

		num = strings.ReplaceAll(num, thousands, "")
		if strings.Count(num, decimal) > 1 {
			return "", ErrNonNumericPrice
		}

		return strings.Replace(num, decimal, ".", 1), nil

	case lastComma >= 0:
		if len(num)-lastComma-1 == 2 {
			return strings.ReplaceAll(num[:lastComma], ",", "") + "." + num[lastComma+1:], nil
		}

		return strings.ReplaceAll(num, ",", ""), nil

	case strings.Count(num, ".") > 1:
		if len(num)-lastDot-1 <= 2 {
			return strings.ReplaceAll(num[:lastDot], ".", "") + "." + num[lastDot+1:], nil
		}

		return strings.ReplaceAll(num, ".", ""), nil
	}

	return num, nil
}

// CompareMoney compares two canonical amounts. Unparseable values sort as zero.
func CompareMoney(a, b string) int {
	ra, err := ParseMoney(a)
	if err != nil {
		ra = new(big.Rat)
	}

	rb, err := ParseMoney(b)
	if err != nil {
		rb = new(big.Rat)
	}

	return ra.Cmp(rb)
}

// Weight converts a kilogram amount to whole grams, or 0 when unusable.
// A lone comma is always the decimal mark here.
func (n *Normalizer) Weight(raw string) int {
	s := strings.TrimSpace(raw)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	r, err := ParseMoney(s)
	if err != nil {
		if !errors.Is(err, ErrEmptyPrice) {
			n.log.Warn("Unusable weight", "value", raw, "error", err)
		}

		return 0
	}

	grams := new(big.Rat).Mul(r, big.NewRat(1000, 1))
	f, _ := grams.Float64()

	return int(f + 0.5)
}
