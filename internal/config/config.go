// Package config provides configuration for the migration commands: the
// environment surface and the YAML feed profiles.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shopmigrate/internal/batch"
)

// Configuration validation errors.
var (
	ErrMissingEndpoint      = errors.New("STORE_ENDPOINT is required: set it to the store's GraphQL admin URL, e.g. https://example.myshop.com/admin/api/graphql.json")
	ErrInvalidEndpoint      = errors.New("STORE_ENDPOINT must be an absolute http(s) URL")
	ErrMissingToken         = errors.New("STORE_TOKEN is required: create an admin API access token and export it as STORE_TOKEN")
	ErrInvalidNumber        = errors.New("invalid numeric value")
	ErrInvalidBool          = errors.New("invalid boolean value")
	ErrInvalidStartRow      = errors.New("START_ROW must be non-negative")
	ErrInvalidBatchSize     = errors.New("BATCH_SIZE must be non-negative")
	ErrInvalidMaxConcurrent = errors.New("MAX_CONCURRENT must be at least 1")
	ErrInvalidDelay         = errors.New("REQUEST_DELAY_MS and THROTTLE_PAUSE_MS must be non-negative")
	ErrInvalidLowWater      = errors.New("COST_LOW_WATER must be non-negative")
	ErrInvalidRateLimit     = errors.New("RATE_LIMIT_RPS must be non-negative")
	ErrInvalidLogLevel      = errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	ErrMissingLocation      = errors.New("STORE_LOCATION_ID is required to set inventory quantities")
	ErrNoSource             = errors.New("no input file configured: set CSV_FILE or the entity-specific override")
)

// Defaults.
const (
	DefaultMaxConcurrent = 3
	DefaultRequestDelay  = 500 * time.Millisecond
	DefaultCostLowWater  = 100
	DefaultThrottlePause = 2 * time.Second
	DefaultLogLevel      = "info"
)

// Entity names the kind of record a command migrates.
type Entity string

// Entities.
const (
	EntityProducts  Entity = "products"
	EntityCustomers Entity = "customers"
)

// Config represents the run configuration read from the environment.
type Config struct {
	Endpoint     string
	Token        string
	LocationID   string
	CSVFile      string
	ProductsCSV  string
	CustomersCSV string
	LogLevel     string
	RunLog       string
	RunJournal   string
	FeedProfile  string
	AWSRegion    string
	SourceToken  string

	StartRow      int
	BatchSize     int
	MaxConcurrent int
	CostLowWater  int
	RateLimitRPS  float64

	RequestDelay  time.Duration
	ThrottlePause time.Duration

	DryRun bool
}

// LookupFunc reads one environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv reads the configuration through lookup. It only reports malformed
// values; call Validate before doing any I/O.
func FromEnv(lookup LookupFunc) (*Config, error) {
	r := envReader{lookup: lookup}

	cfg := &Config{
		Endpoint:      r.str("STORE_ENDPOINT"),
		Token:         r.str("STORE_TOKEN"),
		LocationID:    r.str("STORE_LOCATION_ID"),
		CSVFile:       r.str("CSV_FILE"),
		ProductsCSV:   r.str("PRODUCTS_CSV"),
		CustomersCSV:  r.str("CUSTOMERS_CSV"),
		LogLevel:      strings.ToLower(r.strOr("LOG_LEVEL", DefaultLogLevel)),
		RunLog:        r.str("RUN_LOG"),
		RunJournal:    r.str("RUN_JOURNAL"),
		FeedProfile:   r.str("FEED_PROFILE"),
		AWSRegion:     r.str("AWS_REGION"),
		SourceToken:   r.str("SOURCE_TOKEN"),
		StartRow:      r.integer("START_ROW", 0),
		BatchSize:     r.integer("BATCH_SIZE", 0),
		MaxConcurrent: r.integer("MAX_CONCURRENT", DefaultMaxConcurrent),
		CostLowWater:  r.integer("COST_LOW_WATER", DefaultCostLowWater),
		RateLimitRPS:  r.float("RATE_LIMIT_RPS", 0),
		RequestDelay:  r.millis("REQUEST_DELAY_MS", DefaultRequestDelay),
		ThrottlePause: r.millis("THROTTLE_PAUSE_MS", DefaultThrottlePause),
		DryRun:        r.boolean("DRY_RUN"),
	}

	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}

	return cfg, nil
}

// Validate checks the configuration. Credentials are checked first so a
// misconfigured run fails before touching files or the network.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.Endpoint)
	}

	if c.Token == "" {
		return ErrMissingToken
	}

	if c.StartRow < 0 {
		return ErrInvalidStartRow
	}

	if c.BatchSize < 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxConcurrent < 1 {
		return ErrInvalidMaxConcurrent
	}

	if c.RequestDelay < 0 || c.ThrottlePause < 0 {
		return ErrInvalidDelay
	}

	if c.CostLowWater < 0 {
		return ErrInvalidLowWater
	}

	if c.RateLimitRPS < 0 {
		return ErrInvalidRateLimit
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	return nil
}

// Source returns the input path or pattern for entity. The entity-specific
// override wins over CSV_FILE.
func (c *Config) Source(entity Entity) (string, error) {
	override := c.ProductsCSV
	if entity == EntityCustomers {
		override = c.CustomersCSV
	}

	switch {
	case override != "":
		return override, nil
	case c.CSVFile != "":
		return c.CSVFile, nil
	}

	return "", fmt.Errorf("%w (%s)", ErrNoSource, entity)
}

// Window returns the configured batch window.
func (c *Config) Window() batch.Window {
	return batch.Window{Start: c.StartRow, Size: c.BatchSize}
}

// String returns a representation of the config without the token.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Endpoint: %s, Location: %s, Window: %d+%d, MaxConcurrent: %d, Delay: %s, DryRun: %t}",
		c.Endpoint,
		c.LocationID,
		c.StartRow,
		c.BatchSize,
		c.MaxConcurrent,
		c.RequestDelay,
		c.DryRun,
	)
}

type envReader struct {
	lookup LookupFunc
	errs   []error
}

func (r *envReader) str(key string) string {
	v, _ := r.lookup(key)

	return strings.TrimSpace(v)
}

func (r *envReader) strOr(key, def string) string {
	if v := r.str(key); v != "" {
		return v
	}

	return def
}

func (r *envReader) integer(key string, def int) int {
	v := r.str(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, v))
		return def
	}

	return n
}

func (r *envReader) float(key string, def float64) float64 {
	v := r.str(key)
	if v == "" {
		return def
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, v))
		return def
	}

	return f
}

func (r *envReader) millis(key string, def time.Duration) time.Duration {
	v := r.str(key)
	if v == "" {
		return def
	}

	return time.Duration(r.integer(key, int(def/time.Millisecond))) * time.Millisecond
}

func (r *envReader) boolean(key string) bool {
	v := strings.ToLower(r.str(key))

	switch v {
	case "", "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}

	r.errs = append(r.errs, fmt.Errorf("%w: %s=%q", ErrInvalidBool, key, v))

	return false
}
