// Package models defines the records flowing through the migration pipeline.
package models

import "sort"

// Column is a logical source column. Feed profiles map each Column to the
// header name used by a particular CSV export.
type Column string

// Product columns.
const (
	ColSKU          Column = "sku"
	ColCode         Column = "code"
	ColTitle        Column = "title"
	ColDescription  Column = "description"
	ColVendor       Column = "vendor"
	ColPrice        Column = "price"
	ColSpecialPrice Column = "special_price"
	ColCost         Column = "cost"
	ColQuantity     Column = "quantity"
	ColAvailability Column = "availability"
	ColCategories   Column = "categories"
	ColBarcode      Column = "barcode"
	ColWeight       Column = "weight"
)

// Customer columns.
const (
	ColEmail           Column = "email"
	ColFirstName       Column = "first_name"
	ColLastName        Column = "last_name"
	ColPhone           Column = "phone"
	ColBillingAddress  Column = "billing_address"
	ColShippingAddress Column = "shipping_address"
	ColCompany         Column = "company"
	ColNewsletter      Column = "newsletter"
	ColGroup           Column = "group"
)

var knownColumns = map[Column]bool{
	ColSKU: true, ColCode: true, ColTitle: true, ColDescription: true, ColVendor: true,
	ColPrice: true, ColSpecialPrice: true, ColCost: true, ColQuantity: true,
	ColAvailability: true, ColCategories: true, ColBarcode: true, ColWeight: true,
	ColEmail: true, ColFirstName: true, ColLastName: true, ColPhone: true,
	ColBillingAddress: true, ColShippingAddress: true, ColCompany: true,
	ColNewsletter: true, ColGroup: true,
}

// IsKnown reports whether c belongs to the documented column set.
func (c Column) IsKnown() bool {
	return knownColumns[c]
}

// RawRecord is one parsed CSV row keyed by logical column. A column absent
// from the source reads as the empty string.
type RawRecord struct {
	values map[Column]string
	Index  int
}

// NewRawRecord copies values into a new record for source row index.
func NewRawRecord(index int, values map[Column]string) RawRecord {
	cp := make(map[Column]string, len(values))
	for k, v := range values {
		cp[k] = v
	}

	return RawRecord{Index: index, values: cp}
}

// Get returns the raw value of column c, or "" when the row does not carry it.
func (r RawRecord) Get(c Column) string {
	return r.values[c]
}

// Has reports whether the row carries column c at all.
func (r RawRecord) Has(c Column) bool {
	_, ok := r.values[c]
	return ok
}

// Columns returns the columns present on the row in sorted order.
func (r RawRecord) Columns() []Column {
	cols := make([]Column, 0, len(r.values))
	for c := range r.values {
		cols = append(cols, c)
	}

	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })

	return cols
}
