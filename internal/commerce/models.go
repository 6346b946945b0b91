package commerce

import (
	"shopmigrate/internal/models"
)

// Entity is a remote record: its opaque global ID plus the natural key.
type Entity struct {
	ID  string
	Key string
	// VariantID and InventoryItemID are set for products.
	VariantID       string
	InventoryItemID string
}

// ProductInput is the root product input.
type ProductInput struct {
	DescriptionHTML *string  `json:"descriptionHtml,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Title           string   `json:"title"`
	Vendor          string   `json:"vendor,omitempty"`
	Status          string   `json:"status"`
	Tags            []string `json:"tags"`
}

// VariantInput carries SKU and pricing for a product's default variant.
type VariantInput struct {
	CompareAtPrice *string `json:"compareAtPrice"`
	Barcode        *string `json:"barcode,omitempty"`
	Weight         *Weight `json:"weight,omitempty"`
	ID             string  `json:"id"`
	SKU            string  `json:"sku"`
	Price          string  `json:"price"`
}

// Weight is a measured weight.
type Weight struct {
	Unit  string `json:"unit"`
	Value int    `json:"value"`
}

// InventoryItemInput updates an inventory item.
type InventoryItemInput struct {
	Cost    *string `json:"cost,omitempty"`
	Tracked bool    `json:"tracked"`
}

// OnHandInput sets a quantity at a location.
type OnHandInput struct {
	InventoryItemID string `json:"inventoryItemId"`
	LocationID      string `json:"locationId"`
	Quantity        int    `json:"quantity"`
}

// CustomerInput is the customer input.
type CustomerInput struct {
	Phone            *string           `json:"phone,omitempty"`
	FirstName        *string           `json:"firstName,omitempty"`
	LastName         *string           `json:"lastName,omitempty"`
	Email            string            `json:"email"`
	Tags             []string          `json:"tags"`
	Addresses        []AddressInput    `json:"addresses,omitempty"`
	MarketingConsent *MarketingConsent `json:"emailMarketingConsent,omitempty"`
}

// AddressInput is a mailing address.
type AddressInput struct {
	Company      *string `json:"company,omitempty"`
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address1     string  `json:"address1"`
	City         string  `json:"city,omitempty"`
	ProvinceCode string  `json:"provinceCode,omitempty"`
	Zip          string  `json:"zip,omitempty"`
	CountryCode  string  `json:"countryCode,omitempty"`
}

// MarketingConsent records email marketing opt-in.
type MarketingConsent struct {
	State string `json:"marketingState"`
}

// Marketing consent states.
const (
	ConsentSubscribed    = "SUBSCRIBED"
	ConsentNotSubscribed = "NOT_SUBSCRIBED"
)

func strPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func productInput(p *models.ProductPayload) ProductInput {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return ProductInput{
		DescriptionHTML: strPtr(p.Description),
		Category:        strPtr(p.TaxonomyCode),
		Title:           p.Title,
		Vendor:          p.Vendor,
		Status:          string(p.Status),
		Tags:            tags,
	}
}

func variantInput(variantID string, p *models.ProductPayload) VariantInput {
	v := VariantInput{
		CompareAtPrice: p.CompareAtPrice,
		Barcode:        strPtr(p.Barcode),
		ID:             variantID,
		SKU:            p.SKU,
		Price:          p.Price,
	}

	if p.WeightGrams > 0 {
		v.Weight = &Weight{Unit: "GRAMS", Value: p.WeightGrams}
	}

	return v
}

func customerInput(c *models.CustomerPayload) CustomerInput {
	in := CustomerInput{
		Phone:            c.Phone,
		FirstName:        strPtr(c.FirstName),
		LastName:         strPtr(c.LastName),
		Email:            c.Email,
		Tags:             c.Tags,
		MarketingConsent: &MarketingConsent{State: ConsentNotSubscribed},
	}

	if in.Tags == nil {
		in.Tags = []string{}
	}

	if c.AcceptsMarketing {
		in.MarketingConsent.State = ConsentSubscribed
	}

	for _, a := range []*models.Address{c.Billing, c.Shipping} {
		if a == nil || a.IsZero() {
			continue
		}

		in.Addresses = append(in.Addresses, AddressInput{
			Company:      strPtr(c.Company),
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Phone:        c.Phone,
			Address1:     a.Street,
			City:         a.City,
			ProvinceCode: a.Province,
			Zip:          a.PostalCode,
			CountryCode:  a.Country,
		})
	}

	return in
}
