package models

// Status is the lifecycle state submitted for a product.
type Status string

// Product lifecycle states.
const (
	StatusActive Status = "ACTIVE"
	StatusDraft  Status = "DRAFT"
)

// ProductPayload is the canonical target representation of one product.
// Prices are decimal strings with exactly two fraction digits.
type ProductPayload struct {
	CompareAtPrice *string
	Cost           *string
	SKU            string
	Title          string
	Description    string
	Vendor         string
	Price          string
	Barcode        string
	TaxonomyCode   string
	Status         Status
	Tags           []string
	Quantity       int
	WeightGrams    int
	Row            int
	Published      bool
}
