// Package normalizer converts locale-specific raw CSV fields into canonical
// values. Every operation is deterministic; unusable input yields a zero
// value and a warning instead of an error.
package normalizer

import (
	"sort"
	"strings"

	"golang.org/x/text/language"

	"shopmigrate/internal/logger"
	"shopmigrate/pkg/textutil"
)

// Normalizer holds lookup tables and a logging sink. It is safe for
// concurrent use.
type Normalizer struct {
	log          logger.Sink
	availability map[string]int
	countries    map[string]string
	countryKeys  []string
	callingCodes []string
	mobile       map[string]bool
	defaultCode  string
	lang         language.Tag
}

// New builds a normalizer from tables. Missing tables fall back to the
// bundled defaults.
func New(tables Tables, log logger.Sink) *Normalizer {
	defaults := DefaultTables()

	if tables.Availability == nil {
		tables.Availability = defaults.Availability
	}

	if tables.Countries == nil {
		tables.Countries = defaults.Countries
	}

	if tables.CallingCodes == nil {
		tables.CallingCodes = defaults.CallingCodes
	}

	if tables.MobilePrefixes == nil {
		tables.MobilePrefixes = defaults.MobilePrefixes
	}

	if tables.DefaultCallingCode == "" {
		tables.DefaultCallingCode = defaults.DefaultCallingCode
	}

	if log == nil {
		log = logger.Nop()
	}

	n := &Normalizer{
		log:          log,
		availability: make(map[string]int, len(tables.Availability)),
		countries:    make(map[string]string, len(tables.Countries)),
		mobile:       make(map[string]bool, len(tables.MobilePrefixes)),
		defaultCode:  strings.TrimPrefix(tables.DefaultCallingCode, "+"),
		lang:         language.Make(tables.Language),
	}

	for code, qty := range tables.Availability {
		n.availability[strings.ToUpper(strings.TrimSpace(code))] = qty
	}

	for name, iso := range tables.Countries {
		key := textutil.Fold(name)
		n.countries[key] = strings.ToUpper(iso)
		n.countryKeys = append(n.countryKeys, key)
	}

	// Longest synonyms first so containment prefers the most specific name.
	sort.Slice(n.countryKeys, func(i, j int) bool {
		if len(n.countryKeys[i]) != len(n.countryKeys[j]) {
			return len(n.countryKeys[i]) > len(n.countryKeys[j])
		}

		return n.countryKeys[i] < n.countryKeys[j]
	})

	n.callingCodes = append([]string(nil), tables.CallingCodes...)
	sort.Slice(n.callingCodes, func(i, j int) bool {
		return len(n.callingCodes[i]) > len(n.callingCodes[j])
	})

	for _, p := range tables.MobilePrefixes {
		n.mobile[p] = true
	}

	return n
}

// WithSink returns a copy of n logging to s.
func (n *Normalizer) WithSink(s logger.Sink) *Normalizer {
	cp := *n
	cp.log = s

	return &cp
}
