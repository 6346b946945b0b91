package commerce

import (
	"context"
	"fmt"

	"shopmigrate/internal/models"
)

// CustomerStore is the customer side of the remote store.
type CustomerStore interface {
	FindCustomer(ctx context.Context, email string) (*Entity, error)
	CreateCustomer(ctx context.Context, c *models.CustomerPayload) (*Entity, error)
	UpdateCustomer(ctx context.Context, id string, c *models.CustomerPayload) (*Entity, error)
	DeleteCustomer(ctx context.Context, id string) (string, error)
}

// Ensure Store implements CustomerStore.
var _ CustomerStore = (*Store)(nil)

type customerNode struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type customerPayload struct {
	Customer customerNode `json:"customer"`
}

// FindCustomer looks a customer up by email. It returns nil, nil when none
// exists.
func (s *Store) FindCustomer(ctx context.Context, email string) (*Entity, error) {
	node, err := findFirst[customerNode](ctx, s.client, "customers", FindCustomerByEmailQuery, map[string]any{
		"query": searchQuery("email", email),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", email, err)
	}

	if node == nil {
		return nil, nil
	}

	return &Entity{ID: node.ID, Key: email}, nil
}

// CreateCustomer creates a customer with its addresses.
func (s *Store) CreateCustomer(ctx context.Context, c *models.CustomerPayload) (*Entity, error) {
	res, err := mutate[customerPayload](ctx, s.client, "createCustomer", CreateCustomerMutation, map[string]any{
		"input": customerInput(c),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer %s: %w", c.Email, err)
	}

	return &Entity{ID: res.Customer.ID, Key: c.Email}, nil
}

// UpdateCustomer updates the customer with the given ID.
func (s *Store) UpdateCustomer(ctx context.Context, id string, c *models.CustomerPayload) (*Entity, error) {
	res, err := mutate[customerPayload](ctx, s.client, "updateCustomer", UpdateCustomerMutation, map[string]any{
		"id":    id,
		"input": customerInput(c),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", c.Email, err)
	}

	if res.Customer.ID == "" {
		res.Customer.ID = id
	}

	return &Entity{ID: res.Customer.ID, Key: c.Email}, nil
}

// DeleteCustomer deletes a customer and returns the deleted ID.
func (s *Store) DeleteCustomer(ctx context.Context, id string) (string, error) {
	res, err := mutate[deletePayload](ctx, s.client, "deleteCustomer", DeleteCustomerMutation, map[string]any{"id": id})
	if err != nil {
		return "", fmt.Errorf("failed to delete customer %s: %w", id, err)
	}

	return res.DeletedID, nil
}
