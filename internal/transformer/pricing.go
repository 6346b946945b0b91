package transformer

import "shopmigrate/internal/normalizer"

// Pricing is the resolved price pair for a product.
type Pricing struct {
	CompareAt *string
	Price     string
}

// ResolvePricing applies special-price precedence. A special price strictly
// below base becomes the price, with base kept as the compare-at reference.
func ResolvePricing(base, special string) Pricing {
	if special != "" && normalizer.CompareMoney(special, base) < 0 {
		was := base

		return Pricing{Price: special, CompareAt: &was}
	}

	return Pricing{Price: base}
}
