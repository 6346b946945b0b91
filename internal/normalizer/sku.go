package normalizer

import (
	"strings"
)

// skuPrefixLength is how many vendor characters open a generated SKU.
const skuPrefixLength = 3

// SKU builds a natural key from the first three characters of vendor and the
// manufacturer code, e.g. "LEUPOLD" and "90011" give "LEU.90011". Either input
// empty gives false.
func SKU(vendor, code string) (string, bool) {
	vendor = strings.TrimSpace(vendor)
	code = strings.TrimSpace(code)

	if vendor == "" || code == "" {
		return "", false
	}

	prefix := []rune(vendor)
	if len(prefix) > skuPrefixLength {
		prefix = prefix[:skuPrefixLength]
	}

	return strings.ToUpper(string(prefix)) + "." + code, true
}
