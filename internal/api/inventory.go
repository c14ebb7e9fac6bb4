package api

import (
	"context"
	"fmt"
	"net/http"
)

// BranchInventory lists the products stocked at a branch.
func (c *Client) BranchInventory(ctx context.Context, branchID, orgID int64) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/inventory/%d/%d", branchID, orgID), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddProduct creates a new product in the branch inventory.
func (c *Client) AddProduct(ctx context.Context, input ProductInput) error {
	return c.do(ctx, http.MethodPost, "/products/add", input, nil)
}

// RestockProduct sets a product's on-hand quantity to an absolute value.
// The caller computes current + delta; the server stores what it is sent.
func (c *Client) RestockProduct(ctx context.Context, productID int64, quantity int) error {
	payload := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/products/restock/%d", productID), payload, nil)
}
