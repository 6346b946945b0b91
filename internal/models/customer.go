package models

// Address is a postal address parsed from a free-text export field.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// IsZero reports whether no component was recognised.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Equal reports whether all five components match.
func (a Address) Equal(b Address) bool {
	return a.Street == b.Street &&
		a.City == b.City &&
		a.Province == b.Province &&
		a.PostalCode == b.PostalCode &&
		a.Country == b.Country
}

// CustomerPayload is the canonical target representation of one customer.
type CustomerPayload struct {
	Phone            *string
	Shipping         *Address
	Billing          *Address
	Email            string
	FirstName        string
	LastName         string
	Company          string
	Tags             []string
	Row              int
	AcceptsMarketing bool
}
