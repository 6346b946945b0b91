package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmigrate/internal/models"
)

var ErrUnexpectedQuery = errors.New("unexpected query")

// MockClient implements the Client interface for testing.
type MockClient struct {
	ExecuteFunc func(query string, variables map[string]any) (*GraphQLResponse, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockClient) Execute(_ context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, operationName(query))
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(query, variables)
	}

	return nil, nil
}

func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

func data(s string) (*GraphQLResponse, error) {
	return &GraphQLResponse{Data: json.RawMessage(s)}, nil
}

func testProduct() *models.ProductPayload {
	cost := "30.00"
	was := "66.70"

	return &models.ProductPayload{
		SKU:            "LEU.90011",
		Title:          "Pressa lee",
		Description:    "La pressa",
		Vendor:         "LEUPOLD",
		Price:          "50.00",
		CompareAtPrice: &was,
		Cost:           &cost,
		TaxonomyCode:   "sg-4-7-6-2",
		Status:         models.StatusActive,
		Quantity:       4,
		Published:      true,
		Tags:           []string{"Presse"},
	}
}

// productMock answers every product operation successfully unless failOn
// names an operation, which then returns a user error.
func productMock(failOn string) *MockClient {
	return &MockClient{
		ExecuteFunc: func(query string, variables map[string]any) (*GraphQLResponse, error) {
			op := operationName(query)
			if op == failOn {
				return data(fmt.Sprintf(`{%q: {"userErrors": [{"field": ["input"], "message": "rejected"}]}}`, fieldFor(op)))
			}

			switch query {
			case FindProductBySKUQuery:
				return data(`{"variants": {"nodes": []}}`)
			case CreateProductMutation:
				return data(`{"createProduct": {"product": {"id": "gid://Product/1",
					"variants": {"nodes": [{"id": "gid://Variant/2", "inventoryItem": {"id": "gid://Item/3"}}]}}, "userErrors": []}}`)
			case UpdateProductMutation:
				return data(`{"updateProduct": {"product": {"id": "gid://Product/1"}, "userErrors": []}}`)
			case UpdateVariantMutation:
				return data(`{"updateVariant": {"variant": {"id": "gid://Variant/2"}, "userErrors": []}}`)
			case SetCostMutation:
				return data(`{"updateInventoryItem": {"inventoryItem": {"id": "gid://Item/3"}, "userErrors": []}}`)
			case SetOnHandMutation:
				return data(`{"setOnHand": {"inventoryItem": {"id": "gid://Item/3"}, "userErrors": []}}`)
			case PublishProductMutation:
				return data(`{"publishProduct": {"product": {"id": "gid://Product/1"}, "userErrors": []}}`)
			case UnpublishProductMutation:
				return data(`{"unpublishProduct": {"product": {"id": "gid://Product/1"}, "userErrors": []}}`)
			case DeleteProductMutation:
				return data(`{"deleteProduct": {"deletedId": "gid://Product/1", "userErrors": []}}`)
			}

			return nil, fmt.Errorf("%w: %s", ErrUnexpectedQuery, query)
		},
	}
}

func fieldFor(op string) string {
	return map[string]string{
		"CreateProduct":    "createProduct",
		"UpdateProduct":    "updateProduct",
		"UpdateVariant":    "updateVariant",
		"SetCost":          "updateInventoryItem",
		"SetOnHand":        "setOnHand",
		"PublishProduct":   "publishProduct",
		"UnpublishProduct": "unpublishProduct",
	}[op]
}

func TestStore_FindProduct(t *testing.T) {
	mock := &MockClient{
		ExecuteFunc: func(query string, variables map[string]any) (*GraphQLResponse, error) {
			if variables["query"] == `sku:"LEU.90011"` {
				return data(`{"variants": {"nodes": [{"id": "gid://Variant/2", "sku": "LEU.90011",
					"product": {"id": "gid://Product/1"}, "inventoryItem": {"id": "gid://Item/3"}}]}}`)
			}

			return data(`{"variants": {"nodes": []}}`)
		},
	}

	s := NewStore(mock, "gid://Location/1", nil)

	e, err := s.FindProduct(context.Background(), "LEU.90011")
	require.NoError(t, err)
	assert.Equal(t, &Entity{
		ID:              "gid://Product/1",
		Key:             "LEU.90011",
		VariantID:       "gid://Variant/2",
		InventoryItemID: "gid://Item/3",
	}, e)

	e, err = s.FindProduct(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestStore_CreateProduct(t *testing.T) {
	mock := productMock("")
	s := NewStore(mock, "gid://Location/1", nil)

	e, err := s.CreateProduct(context.Background(), testProduct())
	require.NoError(t, err)

	assert.Equal(t, "gid://Product/1", e.ID)
	assert.Equal(t, "gid://Variant/2", e.VariantID)
	assert.Equal(t, []string{"CreateProduct", "UpdateVariant", "SetCost", "SetOnHand", "PublishProduct"}, mock.Calls())
}

func TestStore_CreateProduct_Variables(t *testing.T) {
	captured := map[string]map[string]any{}

	base := productMock("")
	mock := &MockClient{
		ExecuteFunc: func(query string, variables map[string]any) (*GraphQLResponse, error) {
			captured[operationName(query)] = variables
			return base.ExecuteFunc(query, variables)
		},
	}

	p := testProduct()
	p.Cost = nil

	_, err := NewStore(mock, "gid://Location/1", nil).CreateProduct(context.Background(), p)
	require.NoError(t, err)

	input := captured["CreateProduct"]["input"].(ProductInput)
	assert.Equal(t, "Pressa lee", input.Title)
	assert.Equal(t, "ACTIVE", input.Status)
	require.NotNil(t, input.Category)
	assert.Equal(t, "sg-4-7-6-2", *input.Category)

	variant := captured["UpdateVariant"]["input"].(VariantInput)
	assert.Equal(t, "gid://Variant/2", variant.ID)
	assert.Equal(t, "LEU.90011", variant.SKU)
	assert.Equal(t, "50.00", variant.Price)
	assert.Equal(t, "66.70", *variant.CompareAtPrice)

	onHand := captured["SetOnHand"]["input"].(OnHandInput)
	assert.Equal(t, OnHandInput{InventoryItemID: "gid://Item/3", LocationID: "gid://Location/1", Quantity: 4}, onHand)

	assert.NotContains(t, captured, "SetCost")
}

func TestStore_CreateProduct_PartialFailure(t *testing.T) {
	mock := productMock("SetOnHand")
	s := NewStore(mock, "gid://Location/1", nil)

	e, err := s.CreateProduct(context.Background(), testProduct())
	require.Error(t, err)
	require.NotNil(t, e, "the created entity is still reported")

	var perr *PartialFailureError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "gid://Product/1", perr.EntityID)
	assert.Equal(t, StepInventory, perr.Step)
	assert.Equal(t, []string{StepProduct, StepVariant, StepCost}, perr.Completed)
	require.ErrorIs(t, err, ErrUserErrors)

	assert.NotContains(t, mock.Calls(), "PublishProduct", "later steps are not attempted")
}

func TestStore_CreateProduct_RootRejected(t *testing.T) {
	s := NewStore(productMock("CreateProduct"), "gid://Location/1", nil)

	e, err := s.CreateProduct(context.Background(), testProduct())
	require.Nil(t, e)

	var uerr *UserErrorsError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "createProduct", uerr.Operation)
	assert.Equal(t, []string{"input"}, uerr.Errors[0].Field)

	var perr *PartialFailureError
	assert.False(t, errors.As(err, &perr), "nothing was written remotely")
}

func TestStore_UpdateProduct_Unpublishes(t *testing.T) {
	mock := productMock("")
	s := NewStore(mock, "", nil)

	p := testProduct()
	p.Published = false
	p.Status = models.StatusDraft
	p.Cost = nil

	existing := &Entity{ID: "gid://Product/1", Key: p.SKU, VariantID: "gid://Variant/2", InventoryItemID: "gid://Item/3"}

	e, err := s.UpdateProduct(context.Background(), existing, p)
	require.NoError(t, err)
	assert.Equal(t, existing, e)
	assert.Equal(t, []string{"UpdateProduct", "UpdateVariant", "UnpublishProduct"}, mock.Calls())
}

func TestStore_DeleteProduct(t *testing.T) {
	id, err := NewStore(productMock(""), "", nil).DeleteProduct(context.Background(), "gid://Product/1")
	require.NoError(t, err)
	assert.Equal(t, "gid://Product/1", id)
}

func TestStore_ProtocolErrorPropagates(t *testing.T) {
	mock := &MockClient{
		ExecuteFunc: func(string, map[string]any) (*GraphQLResponse, error) {
			resp := &GraphQLResponse{Errors: []GraphQLError{{Message: "Throttled"}}}
			return resp, &ProtocolError{Errors: resp.Errors}
		},
	}

	_, err := NewStore(mock, "", nil).FindProduct(context.Background(), "X")
	require.ErrorIs(t, err, ErrGraphQLError)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestStore_Customers(t *testing.T) {
	var created CustomerInput

	mock := &MockClient{
		ExecuteFunc: func(query string, variables map[string]any) (*GraphQLResponse, error) {
			switch query {
			case FindCustomerByEmailQuery:
				if variables["query"] == `email:"anna@example.com"` {
					return data(`{"customers": {"nodes": [{"id": "gid://Customer/9", "email": "anna@example.com"}]}}`)
				}

				return data(`{"customers": {"nodes": []}}`)
			case CreateCustomerMutation:
				created = variables["input"].(CustomerInput)
				return data(`{"createCustomer": {"customer": {"id": "gid://Customer/10", "email": "mario@example.com"}, "userErrors": []}}`)
			case UpdateCustomerMutation:
				return data(`{"updateCustomer": {"customer": {"id": "gid://Customer/9"}, "userErrors": []}}`)
			case DeleteCustomerMutation:
				return data(`{"deleteCustomer": {"deletedId": "gid://Customer/9", "userErrors": []}}`)
			}

			return nil, fmt.Errorf("%w: %s", ErrUnexpectedQuery, query)
		},
	}

	s := NewStore(mock, "", nil)
	ctx := context.Background()

	e, err := s.FindCustomer(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, "gid://Customer/9", e.ID)

	e, err = s.FindCustomer(ctx, "mario@example.com")
	require.NoError(t, err)
	assert.Nil(t, e)

	phone := "+393331234567"
	c := &models.CustomerPayload{
		Email:            "mario@example.com",
		FirstName:        "Mario",
		Phone:            &phone,
		Company:          "ACME",
		AcceptsMarketing: true,
		Billing:          &models.Address{Street: "Via Roma 1", City: "Milano", Province: "MI", PostalCode: "20121", Country: "IT"},
	}

	e, err = s.CreateCustomer(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "gid://Customer/10", e.ID)

	assert.Equal(t, ConsentSubscribed, created.MarketingConsent.State)
	assert.Nil(t, created.LastName)
	assert.Equal(t, []string{}, created.Tags)
	require.Len(t, created.Addresses, 1)
	assert.Equal(t, "MI", created.Addresses[0].ProvinceCode)
	assert.Equal(t, "ACME", *created.Addresses[0].Company)

	e, err = s.UpdateCustomer(ctx, "gid://Customer/9", c)
	require.NoError(t, err)
	assert.Equal(t, "gid://Customer/9", e.ID)

	id, err := s.DeleteCustomer(ctx, "gid://Customer/9")
	require.NoError(t, err)
	assert.Equal(t, "gid://Customer/9", id)
}
