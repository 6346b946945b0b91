package transformer

import (
	"net/mail"
	"strings"

	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
	"shopmigrate/internal/normalizer"
	"shopmigrate/pkg/textutil"
)

var truthy = map[string]bool{
	"1": true, "y": true, "yes": true, "true": true, "x": true,
	"si": true, "sì": true, "s": true,
}

// CustomerTransformer builds customer payloads from raw rows.
type CustomerTransformer struct {
	feed      CustomerFeed
	norm      *normalizer.Normalizer
	addresses *AddressParser
	log       logger.Sink
}

// NewCustomerTransformer creates a transformer for feed.
func NewCustomerTransformer(feed CustomerFeed, norm *normalizer.Normalizer, log logger.Sink) *CustomerTransformer {
	if log == nil {
		log = logger.Nop()
	}

	return &CustomerTransformer{
		feed:      feed,
		norm:      norm,
		addresses: NewAddressParser(norm, feed.Cities, feed.DefaultCountry),
		log:       log,
	}
}

// Key returns the lowercased email of rec.
func (t *CustomerTransformer) Key(rec models.RawRecord) (string, error) {
	email := strings.ToLower(strings.TrimSpace(rec.Get(models.ColEmail)))
	if email == "" {
		return "", constructionError(rec.Index, "", ErrMissingKey, "empty email")
	}

	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", constructionError(rec.Index, email, ErrInvalidKey, "malformed email")
	}

	return email, nil
}

// Transform builds the payload for rec. A missing or malformed email fails
// with a *PayloadConstructionError.
func (t *CustomerTransformer) Transform(rec models.RawRecord) (*models.CustomerPayload, error) {
	email, err := t.Key(rec)
	if err != nil {
		return nil, err
	}

	log := logger.WithAttrs(t.log, "row", rec.Index, "email", email)
	norm := t.norm.WithSink(log)

	c := &models.CustomerPayload{
		Email:            email,
		FirstName:        textutil.CollapseWhitespace(rec.Get(models.ColFirstName)),
		LastName:         textutil.CollapseWhitespace(rec.Get(models.ColLastName)),
		Company:          textutil.CollapseWhitespace(rec.Get(models.ColCompany)),
		AcceptsMarketing: truthy[strings.ToLower(strings.TrimSpace(rec.Get(models.ColNewsletter)))],
		Row:              rec.Index,
	}

	if phone, ok := norm.Phone(rec.Get(models.ColPhone)); ok {
		c.Phone = &phone
	}

	c.Billing = t.addresses.Parse(rec.Get(models.ColBillingAddress))
	c.Shipping = t.addresses.Parse(rec.Get(models.ColShippingAddress))

	if c.Billing != nil && c.Shipping != nil && c.Shipping.Equal(*c.Billing) {
		log.Debug("Shipping address equals billing, dropping it")

		c.Shipping = nil
	}

	c.Tags = append(c.Tags, t.feed.Tags...)
	if group := textutil.CollapseWhitespace(rec.Get(models.ColGroup)); group != "" {
		c.Tags = append(c.Tags, group)
	}

	return c, nil
}
