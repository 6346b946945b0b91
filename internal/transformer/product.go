package transformer

import (
	"strings"

	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
	"shopmigrate/internal/normalizer"
	"shopmigrate/pkg/textutil"
)

// zeroPrice is submitted when the feed tolerates a missing base price.
const zeroPrice = "0.00"

// ProductTransformer builds product payloads from raw rows.
type ProductTransformer struct {
	feed ProductFeed
	norm *normalizer.Normalizer
	log  logger.Sink
}

// NewProductTransformer creates a transformer for feed. A nil taxonomy
// leaves products unclassified.
func NewProductTransformer(feed ProductFeed, norm *normalizer.Normalizer, log logger.Sink) *ProductTransformer {
	if log == nil {
		log = logger.Nop()
	}

	if feed.Taxonomy == nil {
		feed.Taxonomy = NewTaxonomy(nil, "", "")
	}

	if feed.SKUMode == "" {
		feed.SKUMode = SKUFromColumn
	}

	if feed.QuantityMode == "" {
		feed.QuantityMode = QuantityFromColumn
	}

	if feed.MissingPrice == "" {
		feed.MissingPrice = MissingPriceZero
	}

	return &ProductTransformer{feed: feed, norm: norm, log: log}
}

// Transform builds the payload for rec. It returns a *SkipError for rows
// outside the vendor allow-list and a *PayloadConstructionError when no
// natural key or required price can be derived.
func (t *ProductTransformer) Transform(rec models.RawRecord) (*models.ProductPayload, error) {
	vendor := strings.TrimSpace(rec.Get(models.ColVendor))

	sku, err := t.key(rec, vendor)
	if err != nil {
		return nil, err
	}

	log := logger.WithAttrs(t.log, "row", rec.Index, "sku", sku)
	norm := t.norm.WithSink(log)

	base, ok := norm.Price(rec.Get(models.ColPrice))
	if !ok {
		if t.feed.MissingPrice == MissingPriceReject {
			return nil, constructionError(rec.Index, sku, ErrMissingPrice, rec.Get(models.ColPrice))
		}

		log.Warn("No usable base price, submitting zero")

		base = zeroPrice
	}

	special, _ := norm.Price(rec.Get(models.ColSpecialPrice))
	pricing := ResolvePricing(base, special)

	p := &models.ProductPayload{
		SKU:            sku,
		Title:          norm.Title(textutil.CollapseWhitespace(rec.Get(models.ColTitle))),
		Description:    normalizer.StripHTML(rec.Get(models.ColDescription)),
		Vendor:         vendor,
		Price:          pricing.Price,
		CompareAtPrice: pricing.CompareAt,
		Barcode:        strings.TrimSpace(rec.Get(models.ColBarcode)),
		WeightGrams:    norm.Weight(rec.Get(models.ColWeight)),
		Row:            rec.Index,
	}

	if p.Title == "" {
		p.Title = sku
	}

	if cost, ok := norm.Price(rec.Get(models.ColCost)); ok {
		p.Cost = &cost
	}

	if t.feed.QuantityMode == QuantityFromAvailability {
		p.Quantity = norm.Availability(rec.Get(models.ColAvailability))
	} else {
		p.Quantity = norm.Quantity(rec.Get(models.ColQuantity))
	}

	p.Published = p.Quantity > 0
	p.Status = models.StatusDraft

	if p.Published {
		p.Status = models.StatusActive
	}

	p.Tags = t.feed.Taxonomy.Segments(rec.Get(models.ColCategories))

	candidates := p.Tags
	if vendor != "" {
		candidates = append(append([]string(nil), p.Tags...), vendor)
	}

	p.TaxonomyCode = t.feed.Taxonomy.Resolve(candidates)

	return p, nil
}

// Key derives only the SKU of rec, honouring the vendor allow-list.
func (t *ProductTransformer) Key(rec models.RawRecord) (string, error) {
	return t.key(rec, strings.TrimSpace(rec.Get(models.ColVendor)))
}

func (t *ProductTransformer) key(rec models.RawRecord, vendor string) (string, error) {
	if t.feed.AllowedVendor != "" && !strings.EqualFold(vendor, strings.TrimSpace(t.feed.AllowedVendor)) {
		return "", &SkipError{Row: rec.Index, Reason: "vendor not allowed: " + vendor}
	}

	return t.sku(rec, vendor)
}

func (t *ProductTransformer) sku(rec models.RawRecord, vendor string) (string, error) {
	if t.feed.SKUMode == SKUGenerated {
		sku, ok := normalizer.SKU(vendor, rec.Get(models.ColCode))
		if !ok {
			return "", constructionError(rec.Index, "", ErrMissingKey, "vendor and manufacturer code required")
		}

		return sku, nil
	}

	sku := strings.TrimSpace(rec.Get(models.ColSKU))
	if sku == "" {
		return "", constructionError(rec.Index, "", ErrMissingKey, "empty sku")
	}

	return sku, nil
}
