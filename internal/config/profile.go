package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"shopmigrate/internal/models"
	"shopmigrate/internal/normalizer"
	"shopmigrate/internal/transformer"
)

//go:embed default_profile.yaml
var defaultProfile []byte

// Profile validation errors.
var (
	ErrUnknownFeed          = errors.New("unknown product feed")
	ErrNoProductFeeds       = errors.New("profile defines no product feeds")
	ErrInvalidSKUMode       = errors.New("sku_mode must be 'column' or 'generated'")
	ErrInvalidQuantityMode  = errors.New("quantity_mode must be 'column' or 'availability'")
	ErrInvalidMissingPrice  = errors.New("missing_price must be 'zero' or 'reject'")
	ErrInvalidDelimiter     = errors.New("delimiter must be a single character or empty for auto-detection")
	ErrUnknownColumn        = errors.New("unknown column in mapping")
	ErrMissingKeyColumn     = errors.New("mapping lacks the natural key column")
	ErrMissingTaxonomyCode  = errors.New("taxonomy rule needs both keyword and code")
	ErrNegativeAvailability = errors.New("availability quantities must be non-negative")
)

// Profile holds every feed definition plus the normalizer tables.
type Profile struct {
	Products  map[string]ProductFeedConfig `yaml:"products"`
	Customers CustomerFeedConfig           `yaml:"customers"`
	Tables    TablesConfig                 `yaml:"tables"`
}

// ProductFeedConfig describes one product export variant.
type ProductFeedConfig struct {
	Columns       map[string]string `yaml:"columns"`
	Taxonomy      TaxonomyConfig    `yaml:"taxonomy"`
	Delimiter     string            `yaml:"delimiter"`
	SKUMode       string            `yaml:"sku_mode"`
	QuantityMode  string            `yaml:"quantity_mode"`
	MissingPrice  string            `yaml:"missing_price"`
	AllowedVendor string            `yaml:"allowed_vendor"`
}

// TaxonomyConfig is the keyword to taxonomy code table of a feed.
type TaxonomyConfig struct {
	Root    string                     `yaml:"root"`
	Default string                     `yaml:"default"`
	Rules   []transformer.TaxonomyRule `yaml:"rules"`
}

// CustomerFeedConfig describes the customer export.
type CustomerFeedConfig struct {
	Columns        map[string]string `yaml:"columns"`
	Cities         map[string]string `yaml:"cities"`
	Delimiter      string            `yaml:"delimiter"`
	DefaultCountry string            `yaml:"default_country"`
	Tags           []string          `yaml:"tags"`
}

// TablesConfig overrides the normalizer's bundled tables. Omitted tables keep
// their defaults.
type TablesConfig struct {
	Availability       map[string]int    `yaml:"availability"`
	Countries          map[string]string `yaml:"countries"`
	CallingCodes       []string          `yaml:"calling_codes"`
	MobilePrefixes     []string          `yaml:"mobile_prefixes"`
	DefaultCallingCode string            `yaml:"default_calling_code"`
	Language           string            `yaml:"language"`
}

// LoadProfile loads a feed profile from path, or the built-in one when path
// is empty.
func LoadProfile(path string) (*Profile, error) {
	data := defaultProfile

	if path != "" {
		var err error

		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read feed profile: %w", err)
		}
	}

	return ParseProfile(data)
}

// ParseProfile parses and validates a YAML feed profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("feed profile validation failed: %w", err)
	}

	return &p, nil
}

// Validate validates the profile.
func (p *Profile) Validate() error {
	if len(p.Products) == 0 {
		return ErrNoProductFeeds
	}

	for name, feed := range p.Products {
		if err := feed.validate(); err != nil {
			return fmt.Errorf("products.%s: %w", name, err)
		}
	}

	if err := validateColumns(p.Customers.Columns, models.ColEmail); err != nil {
		return fmt.Errorf("customers: %w", err)
	}

	if err := validateDelimiter(p.Customers.Delimiter); err != nil {
		return fmt.Errorf("customers: %w", err)
	}

	for code, qty := range p.Tables.Availability {
		if qty < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeAvailability, code, qty)
		}
	}

	return nil
}

func (f ProductFeedConfig) validate() error {
	keyColumn := models.ColSKU

	switch transformer.SKUMode(f.SKUMode) {
	case transformer.SKUFromColumn, "":
	case transformer.SKUGenerated:
		keyColumn = models.ColCode
	default:
		return ErrInvalidSKUMode
	}

	switch transformer.QuantityMode(f.QuantityMode) {
	case transformer.QuantityFromColumn, transformer.QuantityFromAvailability, "":
	default:
		return ErrInvalidQuantityMode
	}

	switch transformer.MissingPricePolicy(f.MissingPrice) {
	case transformer.MissingPriceZero, transformer.MissingPriceReject, "":
	default:
		return ErrInvalidMissingPrice
	}

	if err := validateDelimiter(f.Delimiter); err != nil {
		return err
	}

	for i, r := range f.Taxonomy.Rules {
		if r.Keyword == "" || r.Code == "" {
			return fmt.Errorf("%w: rules[%d]", ErrMissingTaxonomyCode, i)
		}
	}

	return validateColumns(f.Columns, keyColumn)
}

func validateColumns(columns map[string]string, key models.Column) error {
	for name := range columns {
		if !models.Column(name).IsKnown() {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
	}

	if columns[string(key)] == "" {
		return fmt.Errorf("%w: %s", ErrMissingKeyColumn, key)
	}

	return nil
}

func validateDelimiter(d string) error {
	if len([]rune(d)) > 1 {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}

	return nil
}

// FeedNames returns the product feed names in sorted order.
func (p *Profile) FeedNames() []string {
	names := make([]string, 0, len(p.Products))
	for name := range p.Products {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ProductFeed returns the named feed's config.
func (p *Profile) ProductFeed(name string) (ProductFeedConfig, error) {
	f, ok := p.Products[name]
	if !ok {
		return ProductFeedConfig{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownFeed, name, p.FeedNames())
	}

	return f, nil
}

// Feed converts the config into the transformer's feed definition.
func (f ProductFeedConfig) Feed(name string) transformer.ProductFeed {
	return transformer.ProductFeed{
		Name:          name,
		SKUMode:       transformer.SKUMode(f.SKUMode),
		QuantityMode:  transformer.QuantityMode(f.QuantityMode),
		MissingPrice:  transformer.MissingPricePolicy(f.MissingPrice),
		AllowedVendor: f.AllowedVendor,
		Taxonomy:      transformer.NewTaxonomy(f.Taxonomy.Rules, f.Taxonomy.Default, f.Taxonomy.Root),
	}
}

// Mapping returns the logical column to header name mapping.
func (f ProductFeedConfig) Mapping() map[models.Column]string {
	return toMapping(f.Columns)
}

// Feed converts the config into the transformer's feed definition.
func (c CustomerFeedConfig) Feed() transformer.CustomerFeed {
	return transformer.CustomerFeed{
		Name:           "customers",
		Cities:         transformer.Gazetteer(c.Cities),
		DefaultCountry: c.DefaultCountry,
		Tags:           c.Tags,
	}
}

// Mapping returns the logical column to header name mapping.
func (c CustomerFeedConfig) Mapping() map[models.Column]string {
	return toMapping(c.Columns)
}

// NormalizerTables returns the bundled tables with the profile's overrides
// applied.
func (p *Profile) NormalizerTables() normalizer.Tables {
	t := normalizer.DefaultTables()

	if p.Tables.Availability != nil {
		t.Availability = p.Tables.Availability
	}

	if p.Tables.Countries != nil {
		t.Countries = p.Tables.Countries
	}

	if p.Tables.CallingCodes != nil {
		t.CallingCodes = p.Tables.CallingCodes
	}

	if p.Tables.MobilePrefixes != nil {
		t.MobilePrefixes = p.Tables.MobilePrefixes
	}

	if p.Tables.DefaultCallingCode != "" {
		t.DefaultCallingCode = p.Tables.DefaultCallingCode
	}

	if p.Tables.Language != "" {
		t.Language = p.Tables.Language
	}

	return t
}

func toMapping(columns map[string]string) map[models.Column]string {
	m := make(map[models.Column]string, len(columns))
	for k, v := range columns {
		m[models.Column(k)] = v
	}

	return m
}

// Comma returns the configured delimiter, or 0 for auto-detection.
func Comma(delimiter string) rune {
	for _, r := range delimiter {
		return r
	}

	return 0
}
