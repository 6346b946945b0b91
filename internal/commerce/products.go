package commerce

import (
	"context"
	"fmt"

	"shopmigrate/internal/models"
)

// Product upsert steps, in the order they are applied.
const (
	StepProduct   = "product"
	StepVariant   = "variant"
	StepCost      = "cost"
	StepInventory = "inventory"
	StepPublish   = "publish"
)

// ProductStore is the product side of the remote store.
type ProductStore interface {
	FindProduct(ctx context.Context, sku string) (*Entity, error)
	CreateProduct(ctx context.Context, p *models.ProductPayload) (*Entity, error)
	UpdateProduct(ctx context.Context, existing *Entity, p *models.ProductPayload) (*Entity, error)
	DeleteProduct(ctx context.Context, id string) (string, error)
}

// Ensure Store implements ProductStore.
var _ ProductStore = (*Store)(nil)

type variantNode struct {
	ID            string `json:"id"`
	SKU           string `json:"sku"`
	Product       idNode `json:"product"`
	InventoryItem idNode `json:"inventoryItem"`
}

type createProductPayload struct {
	Product struct {
		ID       string                  `json:"id"`
		Variants connection[variantNode] `json:"variants"`
	} `json:"product"`
}

// FindProduct looks a product up by SKU. It returns nil, nil when none exists.
func (s *Store) FindProduct(ctx context.Context, sku string) (*Entity, error) {
	node, err := findFirst[variantNode](ctx, s.client, "variants", FindProductBySKUQuery, map[string]any{
		"query": searchQuery("sku", sku),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", sku, err)
	}

	if node == nil {
		return nil, nil
	}

	return &Entity{
		ID:              node.Product.ID,
		Key:             sku,
		VariantID:       node.ID,
		InventoryItemID: node.InventoryItem.ID,
	}, nil
}

// CreateProduct creates the product, then sets SKU and pricing on its
// variant, then cost, then the on-hand quantity, then publishes it. Each step
// needs IDs returned by the first. A failure after the first step returns a
// *PartialFailureError; the remote product is left as is.
func (s *Store) CreateProduct(ctx context.Context, p *models.ProductPayload) (*Entity, error) {
	created, err := mutate[createProductPayload](ctx, s.client, "createProduct", CreateProductMutation, map[string]any{
		"input": productInput(p),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product %s: %w", p.SKU, err)
	}

	e := &Entity{ID: created.Product.ID, Key: p.SKU}
	completed := []string{StepProduct}

	if len(created.Product.Variants.Nodes) == 0 {
		return e, &PartialFailureError{EntityID: e.ID, Step: StepVariant, Completed: completed, Err: ErrNoVariant}
	}

	e.VariantID = created.Product.Variants.Nodes[0].ID
	e.InventoryItemID = created.Product.Variants.Nodes[0].InventoryItem.ID

	return e, s.completeProduct(ctx, e, p, completed, false)
}

// UpdateProduct updates the product found by FindProduct, then applies the
// same variant, cost, inventory and publication steps as CreateProduct.
func (s *Store) UpdateProduct(ctx context.Context, existing *Entity, p *models.ProductPayload) (*Entity, error) {
	_, err := mutate[struct{}](ctx, s.client, "updateProduct", UpdateProductMutation, map[string]any{
		"id":    existing.ID,
		"input": productInput(p),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", p.SKU, err)
	}

	return existing, s.completeProduct(ctx, existing, p, []string{StepProduct}, true)
}

func (s *Store) completeProduct(ctx context.Context, e *Entity, p *models.ProductPayload, completed []string, update bool) error {
	type step struct {
		name string
		run  func() error
	}

	steps := []step{
		{StepVariant, func() error {
			_, err := mutate[struct{}](ctx, s.client, "updateVariant", UpdateVariantMutation, map[string]any{
				"productId": e.ID,
				"input":     variantInput(e.VariantID, p),
			})
			return err
		}},
	}

	if p.Cost != nil {
		steps = append(steps, step{StepCost, func() error {
			_, err := mutate[struct{}](ctx, s.client, "updateInventoryItem", SetCostMutation, map[string]any{
				"id":    e.InventoryItemID,
				"input": InventoryItemInput{Cost: p.Cost, Tracked: true},
			})
			return err
		}})
	}

	if s.locationID != "" {
		steps = append(steps, step{StepInventory, func() error {
			_, err := mutate[struct{}](ctx, s.client, "setOnHand", SetOnHandMutation, map[string]any{
				"input": OnHandInput{InventoryItemID: e.InventoryItemID, LocationID: s.locationID, Quantity: p.Quantity},
			})
			return err
		}})
	} else {
		s.logger.Warn("No location configured, quantity not set", "sku", p.SKU)
	}

	switch {
	case p.Published:
		steps = append(steps, step{StepPublish, func() error {
			_, err := mutate[struct{}](ctx, s.client, "publishProduct", PublishProductMutation, map[string]any{"id": e.ID})
			return err
		}})
	case update:
		steps = append(steps, step{StepPublish, func() error {
			_, err := mutate[struct{}](ctx, s.client, "unpublishProduct", UnpublishProductMutation, map[string]any{"id": e.ID})
			return err
		}})
	}

	for _, st := range steps {
		if err := st.run(); err != nil {
			s.logger.Error(fmt.Sprintf("Product %s partially written: step %s failed after %v", p.SKU, st.name, completed),
				"id", e.ID, "error", err)

			return &PartialFailureError{EntityID: e.ID, Step: st.name, Completed: completed, Err: err}
		}

		completed = append(completed, st.name)
	}

	return nil
}

// DeleteProduct deletes a product and returns the deleted ID.
func (s *Store) DeleteProduct(ctx context.Context, id string) (string, error) {
	res, err := mutate[deletePayload](ctx, s.client, "deleteProduct", DeleteProductMutation, map[string]any{"id": id})
	if err != nil {
		return "", fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	return res.DeletedID, nil
}
