package api

import (
	"context"
	"net/http"
)

// CreateSale submits a completed checkout. Sales are read-only afterward
// from this layer's perspective.
func (c *Client) CreateSale(ctx context.Context, input SaleInput) error {
	return c.do(ctx, http.MethodPost, "/sales/create", input, nil)
}
