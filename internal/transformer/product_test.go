package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmigrate/internal/models"
	"shopmigrate/internal/normalizer"
)

func singleVendorFeed() ProductFeed {
	return ProductFeed{
		Name:          "leupold",
		SKUMode:       SKUGenerated,
		QuantityMode:  QuantityFromAvailability,
		MissingPrice:  MissingPriceReject,
		AllowedVendor: "LEUPOLD",
		Taxonomy: NewTaxonomy([]TaxonomyRule{
			{Keyword: "presse", Code: "sg-4-7-2"},
			{Keyword: "leupold", Code: "sg-4-7"},
		}, "sg-4", ""),
	}
}

func leupoldRecord(values map[models.Column]string) models.RawRecord {
	base := map[models.Column]string{
		models.ColVendor:       "LEUPOLD",
		models.ColCode:         "90011",
		models.ColTitle:        "PRESSA LEE LOAD ALL II COMPLETA CAL.12 90011",
		models.ColDescription:  "La pressa include 24 boccole<br />per la polvere",
		models.ColPrice:        "66,70",
		models.ColSpecialPrice: "50,00",
		models.ColAvailability: "B",
		models.ColCategories:   "Default Category/Ricarica/Presse",
	}

	for k, v := range values {
		base[k] = v
	}

	return models.NewRawRecord(3, base)
}

func newProductTransformer(feed ProductFeed) *ProductTransformer {
	return NewProductTransformer(feed, normalizer.New(normalizer.DefaultTables(), nil), nil)
}

func TestProductTransformer_Transform(t *testing.T) {
	tr := newProductTransformer(singleVendorFeed())

	p, err := tr.Transform(leupoldRecord(nil))
	require.NoError(t, err)

	assert.Equal(t, "LEU.90011", p.SKU)
	assert.Equal(t, "Pressa lee load all ii completa cal.12 90011", p.Title)
	assert.Equal(t, "La pressa include 24 boccole per la polvere", p.Description)
	assert.Equal(t, "50.00", p.Price)
	require.NotNil(t, p.CompareAtPrice)
	assert.Equal(t, "66.70", *p.CompareAtPrice)
	assert.Equal(t, 4, p.Quantity)
	assert.True(t, p.Published)
	assert.Equal(t, models.StatusActive, p.Status)
	assert.Equal(t, []string{"Ricarica", "Presse"}, p.Tags)
	assert.Equal(t, "sg-4-7-2", p.TaxonomyCode)
	assert.Equal(t, 3, p.Row)
}

func TestProductTransformer_VendorAllowList(t *testing.T) {
	tr := newProductTransformer(singleVendorFeed())

	_, err := tr.Transform(leupoldRecord(map[models.Column]string{models.ColVendor: " leupold "}))
	require.NoError(t, err)

	sku, err := tr.Key(leupoldRecord(map[models.Column]string{models.ColVendor: "\tLeupold\n"}))
	require.NoError(t, err)
	assert.Equal(t, "LEU.90011", sku)

	_, err = tr.Transform(leupoldRecord(map[models.Column]string{
		models.ColVendor: "OtherBrand",
		models.ColPrice:  "",
	}))
	require.ErrorIs(t, err, ErrSkipped)

	var skip *SkipError
	require.ErrorAs(t, err, &skip)
	assert.Equal(t, 3, skip.Row)
}

func TestProductTransformer_Unpublished(t *testing.T) {
	tr := newProductTransformer(singleVendorFeed())

	p, err := tr.Transform(leupoldRecord(map[models.Column]string{
		models.ColAvailability: "Z",
		models.ColSpecialPrice: "70,00",
	}))
	require.NoError(t, err)

	assert.Equal(t, 0, p.Quantity)
	assert.False(t, p.Published)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, "66.70", p.Price)
	assert.Nil(t, p.CompareAtPrice)
}

func TestProductTransformer_ConstructionErrors(t *testing.T) {
	tr := newProductTransformer(singleVendorFeed())

	tests := []struct {
		name    string
		values  map[models.Column]string
		wantErr error
		wantKey string
	}{
		{"missing code", map[models.Column]string{models.ColCode: " "}, ErrMissingKey, ""},
		{"missing price", map[models.Column]string{models.ColPrice: "n/d"}, ErrMissingPrice, "LEU.90011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tr.Transform(leupoldRecord(tt.values))
			require.Nil(t, p)
			require.ErrorIs(t, err, tt.wantErr)

			var cerr *PayloadConstructionError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, 3, cerr.Row)
			assert.Equal(t, tt.wantKey, cerr.Key)
		})
	}
}

func TestProductTransformer_CatalogFeed(t *testing.T) {
	tr := newProductTransformer(ProductFeed{
		Name:         "catalog",
		SKUMode:      SKUFromColumn,
		QuantityMode: QuantityFromColumn,
		MissingPrice: MissingPriceZero,
		Taxonomy:     NewTaxonomy(nil, "sg-0", ""),
	})

	p, err := tr.Transform(models.NewRawRecord(0, map[models.Column]string{
		models.ColSKU:      " ABC-1 ",
		models.ColQuantity: "12.0000",
		models.ColCost:     "10,50",
		models.ColWeight:   "0,25",
	}))
	require.NoError(t, err)

	assert.Equal(t, "ABC-1", p.SKU)
	assert.Equal(t, "ABC-1", p.Title)
	assert.Equal(t, "0.00", p.Price)
	assert.Equal(t, 12, p.Quantity)
	assert.True(t, p.Published)
	require.NotNil(t, p.Cost)
	assert.Equal(t, "10.50", *p.Cost)
	assert.Equal(t, 250, p.WeightGrams)
	assert.Equal(t, "sg-0", p.TaxonomyCode)

	_, err = tr.Transform(models.NewRawRecord(1, nil))
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestProductTransformer_Key(t *testing.T) {
	tr := newProductTransformer(singleVendorFeed())

	// price is irrelevant to the key
	key, err := tr.Key(leupoldRecord(map[models.Column]string{models.ColPrice: ""}))
	require.NoError(t, err)
	assert.Equal(t, "LEU.90011", key)

	_, err = tr.Key(leupoldRecord(map[models.Column]string{models.ColVendor: "OtherBrand"}))
	assert.ErrorIs(t, err, ErrSkipped)

	_, err = tr.Key(leupoldRecord(map[models.Column]string{models.ColCode: " "}))
	assert.ErrorIs(t, err, ErrMissingKey)
}
