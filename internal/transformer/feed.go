package transformer

// SKUMode selects where a product's natural key comes from.
type SKUMode string

// SKU modes.
const (
	// SKUFromColumn reads the key from the sku column.
	SKUFromColumn SKUMode = "column"
	// SKUGenerated builds it from vendor and manufacturer code.
	SKUGenerated SKUMode = "generated"
)

// QuantityMode selects how on-hand stock is derived.
type QuantityMode string

// Quantity modes.
const (
	QuantityFromColumn       QuantityMode = "column"
	QuantityFromAvailability QuantityMode = "availability"
)

// MissingPricePolicy decides what happens to a product without a usable
// base price.
type MissingPricePolicy string

// Missing price policies.
const (
	// MissingPriceZero submits 0.00 and logs a warning.
	MissingPriceZero MissingPricePolicy = "zero"
	// MissingPriceReject fails payload construction.
	MissingPriceReject MissingPricePolicy = "reject"
)

// ProductFeed is the per-feed behaviour of the product transformer.
type ProductFeed struct {
	Name          string
	SKUMode       SKUMode
	QuantityMode  QuantityMode
	MissingPrice  MissingPricePolicy
	AllowedVendor string
	Taxonomy      *Taxonomy
}

// CustomerFeed is the per-feed behaviour of the customer transformer.
type CustomerFeed struct {
	Name           string
	Cities         Gazetteer
	DefaultCountry string
	// Tags are added to every customer, e.g. a migration marker.
	Tags []string
}
