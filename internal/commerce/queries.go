package commerce

// FindProductBySKUQuery finds the variant carrying a SKU.
const FindProductBySKUQuery = `
query FindProductBySKU($query: String!) {
  variants(first: 1, query: $query) {
    nodes {
      id
      sku
      product { id }
      inventoryItem { id }
    }
  }
}
`

// CreateProductMutation creates a product with its default variant.
const CreateProductMutation = `
mutation CreateProduct($input: ProductInput!) {
  createProduct(input: $input) {
    product {
      id
      variants(first: 1) {
        nodes {
          id
          inventoryItem { id }
        }
      }
    }
    userErrors { field message }
  }
}
`

// UpdateProductMutation updates a product's root fields.
const UpdateProductMutation = `
mutation UpdateProduct($id: ID!, $input: ProductInput!) {
  updateProduct(id: $id, input: $input) {
    product { id }
    userErrors { field message }
  }
}
`

// UpdateVariantMutation sets SKU and pricing on a variant.
const UpdateVariantMutation = `
mutation UpdateVariant($productId: ID!, $input: VariantInput!) {
  updateVariant(productId: $productId, input: $input) {
    variant { id }
    userErrors { field message }
  }
}
`

// SetCostMutation sets the unit cost of an inventory item.
const SetCostMutation = `
mutation SetCost($id: ID!, $input: InventoryItemInput!) {
  updateInventoryItem(id: $id, input: $input) {
    inventoryItem { id }
    userErrors { field message }
  }
}
`

// SetOnHandMutation sets the on-hand quantity at one location.
const SetOnHandMutation = `
mutation SetOnHand($input: OnHandInput!) {
  setOnHand(input: $input) {
    inventoryItem { id }
    userErrors { field message }
  }
}
`

// PublishProductMutation makes a product visible in the storefront.
const PublishProductMutation = `
mutation PublishProduct($id: ID!) {
  publishProduct(id: $id) {
    product { id }
    userErrors { field message }
  }
}
`

// UnpublishProductMutation hides a product from the storefront.
const UnpublishProductMutation = `
mutation UnpublishProduct($id: ID!) {
  unpublishProduct(id: $id) {
    product { id }
    userErrors { field message }
  }
}
`

// DeleteProductMutation deletes a product.
const DeleteProductMutation = `
mutation DeleteProduct($id: ID!) {
  deleteProduct(id: $id) {
    deletedId
    userErrors { field message }
  }
}
`

// FindCustomerByEmailQuery finds a customer by email.
const FindCustomerByEmailQuery = `
query FindCustomerByEmail($query: String!) {
  customers(first: 1, query: $query) {
    nodes {
      id
      email
    }
  }
}
`

// CreateCustomerMutation creates a customer.
const CreateCustomerMutation = `
mutation CreateCustomer($input: CustomerInput!) {
  createCustomer(input: $input) {
    customer { id email }
    userErrors { field message }
  }
}
`

// UpdateCustomerMutation updates a customer.
const UpdateCustomerMutation = `
mutation UpdateCustomer($id: ID!, $input: CustomerInput!) {
  updateCustomer(id: $id, input: $input) {
    customer { id email }
    userErrors { field message }
  }
}
`

// DeleteCustomerMutation deletes a customer.
const DeleteCustomerMutation = `
mutation DeleteCustomer($id: ID!) {
  deleteCustomer(id: $id) {
    deletedId
    userErrors { field message }
  }
}
`
