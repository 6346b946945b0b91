package migrate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"shopmigrate/internal/commerce"
	"shopmigrate/internal/config"
	"shopmigrate/internal/ingest"
	"shopmigrate/internal/models"
	"shopmigrate/internal/normalizer"
	"shopmigrate/internal/transformer"
)

// MockProductStore implements commerce.ProductStore for testing.
type MockProductStore struct {
	FindFunc   func(sku string) (*commerce.Entity, error)
	CreateFunc func(p *models.ProductPayload) (*commerce.Entity, error)
	UpdateFunc func(e *commerce.Entity, p *models.ProductPayload) (*commerce.Entity, error)
	DeleteFunc func(id string) (string, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockProductStore) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockProductStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

func (m *MockProductStore) FindProduct(_ context.Context, sku string) (*commerce.Entity, error) {
	m.record("find:" + sku)

	if m.FindFunc != nil {
		return m.FindFunc(sku)
	}

	return nil, nil
}

func (m *MockProductStore) CreateProduct(_ context.Context, p *models.ProductPayload) (*commerce.Entity, error) {
	m.record("create:" + p.SKU)

	if m.CreateFunc != nil {
		return m.CreateFunc(p)
	}

	return &commerce.Entity{ID: "gid://Product/" + p.SKU, Key: p.SKU}, nil
}

func (m *MockProductStore) UpdateProduct(_ context.Context, e *commerce.Entity, p *models.ProductPayload) (*commerce.Entity, error) {
	m.record("update:" + p.SKU)

	if m.UpdateFunc != nil {
		return m.UpdateFunc(e, p)
	}

	return e, nil
}

func (m *MockProductStore) DeleteProduct(_ context.Context, id string) (string, error) {
	m.record("delete:" + id)

	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}

	return id, nil
}

// MockCustomerStore implements commerce.CustomerStore for testing.
type MockCustomerStore struct {
	FindFunc   func(email string) (*commerce.Entity, error)
	CreateFunc func(c *models.CustomerPayload) (*commerce.Entity, error)
	UpdateFunc func(id string, c *models.CustomerPayload) (*commerce.Entity, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockCustomerStore) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockCustomerStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

func (m *MockCustomerStore) FindCustomer(_ context.Context, email string) (*commerce.Entity, error) {
	m.record("find:" + email)

	if m.FindFunc != nil {
		return m.FindFunc(email)
	}

	return nil, nil
}

func (m *MockCustomerStore) CreateCustomer(_ context.Context, c *models.CustomerPayload) (*commerce.Entity, error) {
	m.record("create:" + c.Email)

	if m.CreateFunc != nil {
		return m.CreateFunc(c)
	}

	return &commerce.Entity{ID: "gid://Customer/" + c.Email, Key: c.Email}, nil
}

func (m *MockCustomerStore) UpdateCustomer(_ context.Context, id string, c *models.CustomerPayload) (*commerce.Entity, error) {
	m.record("update:" + c.Email)

	if m.UpdateFunc != nil {
		return m.UpdateFunc(id, c)
	}

	return &commerce.Entity{ID: id, Key: c.Email}, nil
}

func (m *MockCustomerStore) DeleteCustomer(_ context.Context, id string) (string, error) {
	m.record("delete:" + id)
	return id, nil
}

func defaultProfile(t *testing.T) *config.Profile {
	t.Helper()

	p, err := config.LoadProfile("")
	require.NoError(t, err)

	return p
}

func productParts(t *testing.T, feed string) (*transformer.Processor, *transformer.ProductTransformer) {
	t.Helper()

	profile := defaultProfile(t)

	cfg, err := profile.ProductFeed(feed)
	require.NoError(t, err)

	norm := normalizer.New(profile.NormalizerTables(), nil)

	return transformer.NewProcessor(cfg.Mapping(), nil),
		transformer.NewProductTransformer(cfg.Feed(feed), norm, nil)
}

func customerParts(t *testing.T) (*transformer.Processor, *transformer.CustomerTransformer) {
	t.Helper()

	profile := defaultProfile(t)
	norm := normalizer.New(profile.NormalizerTables(), nil)

	return transformer.NewProcessor(profile.Customers.Mapping(), nil),
		transformer.NewCustomerTransformer(profile.Customers.Feed(), norm, nil)
}

func newProductImporter(t *testing.T, feed string, store commerce.ProductStore, opts Options) *ProductImporter {
	t.Helper()

	proc, tr := productParts(t, feed)

	return NewProductImporter(store, proc, tr, opts, nil)
}

// catalogTable builds a general catalog export with one row per sku.
func catalogTable(skus ...string) *ingest.Table {
	t := &ingest.Table{
		Path:   "catalog.csv",
		Header: []string{"sku", "name", "price", "qty", "manufacturer"},
	}

	for _, sku := range skus {
		t.Rows = append(t.Rows, []string{sku, "Item " + sku, "10,00", "3", "ACME"})
	}

	return t
}
