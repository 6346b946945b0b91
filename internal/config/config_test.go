package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmigrate/internal/batch"
	"shopmigrate/internal/models"
	"shopmigrate/internal/transformer"
)

func envLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func validEnv() map[string]string {
	return map[string]string{
		"STORE_ENDPOINT": "https://shop.example.com/admin/api/graphql.json",
		"STORE_TOKEN":    "secret",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envLookup(validEnv()))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultMaxConcurrent, cfg.MaxConcurrent)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestDelay)
	assert.Equal(t, 2*time.Second, cfg.ThrottlePause)
	assert.Equal(t, 100, cfg.CostLowWater)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, batch.Window{}, cfg.Window())
	assert.False(t, cfg.DryRun)
	assert.NotContains(t, cfg.String(), "secret")
}

func TestFromEnv_Overrides(t *testing.T) {
	env := validEnv()
	env["START_ROW"] = "200"
	env["BATCH_SIZE"] = "100"
	env["MAX_CONCURRENT"] = "5"
	env["REQUEST_DELAY_MS"] = "0"
	env["THROTTLE_PAUSE_MS"] = "1500"
	env["RATE_LIMIT_RPS"] = "2.5"
	env["LOG_LEVEL"] = "DEBUG"
	env["DRY_RUN"] = "yes"
	env["SOURCE_TOKEN"] = "export-secret"

	cfg, err := FromEnv(envLookup(env))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, batch.Window{Start: 200, Size: 100}, cfg.Window())
	assert.Equal(t, 5, cfg.MaxConcurrent)
	assert.Equal(t, time.Duration(0), cfg.RequestDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.ThrottlePause)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "export-secret", cfg.SourceToken)
	assert.NotContains(t, cfg.String(), "export-secret")
}

func TestFromEnv_Malformed(t *testing.T) {
	env := validEnv()
	env["BATCH_SIZE"] = "lots"
	env["DRY_RUN"] = "maybe"

	_, err := FromEnv(envLookup(env))
	require.ErrorIs(t, err, ErrInvalidNumber)
	require.ErrorIs(t, err, ErrInvalidBool)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env map[string]string)
		wantErr error
	}{
		{"missing endpoint", func(e map[string]string) { delete(e, "STORE_ENDPOINT") }, ErrMissingEndpoint},
		{"relative endpoint", func(e map[string]string) { e["STORE_ENDPOINT"] = "shop.example.com" }, ErrInvalidEndpoint},
		{"missing token", func(e map[string]string) { e["STORE_TOKEN"] = "  " }, ErrMissingToken},
		{"negative start", func(e map[string]string) { e["START_ROW"] = "-1" }, ErrInvalidStartRow},
		{"negative batch", func(e map[string]string) { e["BATCH_SIZE"] = "-5" }, ErrInvalidBatchSize},
		{"zero concurrency", func(e map[string]string) { e["MAX_CONCURRENT"] = "0" }, ErrInvalidMaxConcurrent},
		{"negative delay", func(e map[string]string) { e["REQUEST_DELAY_MS"] = "-10" }, ErrInvalidDelay},
		{"bad level", func(e map[string]string) { e["LOG_LEVEL"] = "loud" }, ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			tt.mutate(env)

			cfg, err := FromEnv(envLookup(env))
			require.NoError(t, err)
			require.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfig_Source(t *testing.T) {
	cfg := &Config{CSVFile: "exports/*.csv", CustomersCSV: "customers.csv"}

	src, err := cfg.Source(EntityProducts)
	require.NoError(t, err)
	assert.Equal(t, "exports/*.csv", src)

	src, err = cfg.Source(EntityCustomers)
	require.NoError(t, err)
	assert.Equal(t, "customers.csv", src)

	_, err = (&Config{}).Source(EntityProducts)
	require.ErrorIs(t, err, ErrNoSource)
}

func TestLoadProfile_Default(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)

	assert.Equal(t, []string{"catalog", "leupold"}, p.FeedNames())

	feed, err := p.ProductFeed("leupold")
	require.NoError(t, err)

	tf := feed.Feed("leupold")
	assert.Equal(t, transformer.SKUGenerated, tf.SKUMode)
	assert.Equal(t, transformer.QuantityFromAvailability, tf.QuantityMode)
	assert.Equal(t, transformer.MissingPriceReject, tf.MissingPrice)
	assert.Equal(t, "LEUPOLD", tf.AllowedVendor)
	assert.Equal(t, ';', Comma(feed.Delimiter))
	assert.Equal(t, "Marca", feed.Mapping()[models.ColVendor])

	catalog, err := p.ProductFeed("catalog")
	require.NoError(t, err)
	assert.Equal(t, transformer.MissingPriceZero, catalog.Feed("catalog").MissingPrice)

	tables := p.NormalizerTables()
	assert.Equal(t, 4, tables.Availability["B"])
	assert.Equal(t, "it", tables.Language)
	assert.NotEmpty(t, tables.Countries)

	assert.Equal(t, "MI", p.Customers.Feed().Cities["Milano"])
	assert.Equal(t, "email", p.Customers.Mapping()[models.ColEmail])
}

func TestLoadProfile_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
products:
  shop:
    sku_mode: column
    columns:
      sku: SKU
      price: Price
customers:
  columns:
    email: Email
tables:
  availability:
    X: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"X": 7}, p.NormalizerTables().Availability)

	_, err = p.ProductFeed("catalog")
	require.ErrorIs(t, err, ErrUnknownFeed)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseProfile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"no feeds", "customers: {columns: {email: e}}", ErrNoProductFeeds},
		{"bad sku mode", "products: {a: {sku_mode: magic, columns: {sku: s}}}\ncustomers: {columns: {email: e}}", ErrInvalidSKUMode},
		{"bad quantity mode", "products: {a: {quantity_mode: guess, columns: {sku: s}}}\ncustomers: {columns: {email: e}}", ErrInvalidQuantityMode},
		{"bad price policy", "products: {a: {missing_price: ignore, columns: {sku: s}}}\ncustomers: {columns: {email: e}}", ErrInvalidMissingPrice},
		{"generated needs code", "products: {a: {sku_mode: generated, columns: {sku: s}}}\ncustomers: {columns: {email: e}}", ErrMissingKeyColumn},
		{"unknown column", "products: {a: {columns: {sku: s, colour: c}}}\ncustomers: {columns: {email: e}}", ErrUnknownColumn},
		{"bad delimiter", "products: {a: {delimiter: '||', columns: {sku: s}}}\ncustomers: {columns: {email: e}}", ErrInvalidDelimiter},
		{"customer key", "products: {a: {columns: {sku: s}}}\ncustomers: {columns: {phone: p}}", ErrMissingKeyColumn},
		{"negative tier", "products: {a: {columns: {sku: s}}}\ncustomers: {columns: {email: e}}\ntables: {availability: {A: -1}}", ErrNegativeAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
