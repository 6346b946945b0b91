package transformer

import (
	"regexp"
	"strings"

	"shopmigrate/internal/models"
	"shopmigrate/internal/normalizer"
	"shopmigrate/pkg/textutil"
)

// Gazetteer maps a city name to its province code.
type Gazetteer map[string]string

var (
	postalCodePattern = regexp.MustCompile(`\b\d{5}\b`)
	provinceInParens  = regexp.MustCompile(`\(([A-Za-z]{2})\)`)
	trailingProvince  = regexp.MustCompile(`^(.*?)\s*\b([A-Z]{2})$`)
)

// AddressParser splits a free-text address cell into its parts.
type AddressParser struct {
	norm           *normalizer.Normalizer
	cities         map[string]string
	defaultCountry string
}

// NewAddressParser creates a parser. City names are matched accent and case
// insensitively.
func NewAddressParser(norm *normalizer.Normalizer, cities Gazetteer, defaultCountry string) *AddressParser {
	folded := make(map[string]string, len(cities))
	for city, province := range cities {
		folded[textutil.Fold(city)] = strings.ToUpper(province)
	}

	return &AddressParser{norm: norm, cities: folded, defaultCountry: defaultCountry}
}

// Parse reads "street, [postal] city [province], [country]". Blank input
// gives nil.
func (p *AddressParser) Parse(raw string) *models.Address {
	raw = textutil.CollapseWhitespace(raw)
	if raw == "" {
		return nil
	}

	addr := &models.Address{Country: p.defaultCountry}

	if loc := postalCodePattern.FindStringIndex(raw); loc != nil {
		addr.PostalCode = raw[loc[0]:loc[1]]
	}

	parts := splitParts(raw)
	if len(parts) == 0 {
		return nil
	}

	if len(parts) > 1 {
		last := parts[len(parts)-1]
		if iso, ok := p.norm.CountryName(last); ok {
			if _, isCity := p.cities[textutil.Fold(last)]; !isCity {
				addr.Country = iso
				parts = parts[:len(parts)-1]
			}
		}
	}

	// "Via Roma 1 20121 Milano" carries no comma; split at the postal code.
	if len(parts) == 1 && addr.PostalCode != "" {
		if idx := strings.Index(parts[0], addr.PostalCode); idx > 0 {
			parts = splitParts(parts[0][:idx] + "," + parts[0][idx:])
		}
	}

	addr.Street = parts[0]

	for _, part := range parts[1:] {
		p.fillLocality(addr, part)
	}

	return addr
}

// fillLocality reads "[postal] city [province]". A whole-part gazetteer match
// wins, so upper-case city names keep their two-letter words.
func (p *AddressParser) fillLocality(addr *models.Address, part string) {
	if addr.PostalCode != "" {
		part = strings.Replace(part, addr.PostalCode, "", 1)
	}

	part = textutil.CollapseWhitespace(part)
	if part == "" {
		return
	}

	if province, ok := p.cities[textutil.Fold(part)]; ok {
		p.setCity(addr, part, province)
		return
	}

	if m := provinceInParens.FindStringSubmatchIndex(part); m != nil {
		p.setProvince(addr, part[m[2]:m[3]])
		part = textutil.CollapseWhitespace(part[:m[0]] + part[m[1]:])
	} else if m := trailingProvince.FindStringSubmatch(part); m != nil {
		p.setProvince(addr, m[2])
		part = strings.TrimSpace(m[1])
	}

	if part == "" {
		return
	}

	province := p.cities[textutil.Fold(part)]
	p.setCity(addr, part, province)
}

func (p *AddressParser) setProvince(addr *models.Address, code string) {
	if addr.Province == "" {
		addr.Province = strings.ToUpper(code)
	}
}

func (p *AddressParser) setCity(addr *models.Address, city, province string) {
	if addr.City != "" {
		return
	}

	addr.City = city

	if province != "" {
		p.setProvince(addr, province)
	}
}

func splitParts(s string) []string {
	var parts []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	return parts
}
