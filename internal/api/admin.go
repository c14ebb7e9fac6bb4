package api

import (
	"context"
	"fmt"
	"net/http"
)

// Branches lists the organization's branches.
func (c *Client) Branches(ctx context.Context, orgID int64) ([]Branch, error) {
	var branches []Branch
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/branches/%d", orgID), nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// CreateBranch adds a branch to the organization.
func (c *Client) CreateBranch(ctx context.Context, input BranchInput) error {
	return c.do(ctx, http.MethodPost, "/branches", input, nil)
}

// InventorySummary aggregates stock positions across branches.
func (c *Client) InventorySummary(ctx context.Context, orgID int64) ([]InventorySummaryRow, error) {
	var rows []InventorySummaryRow
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/inventory-summary/%d", orgID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesSummary aggregates sales performance across branches.
func (c *Client) SalesSummary(ctx context.Context, orgID int64) ([]SalesSummaryRow, error) {
	var rows []SalesSummaryRow
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/sales-summary/%d", orgID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks products by organization-wide sales.
func (c *Client) TopProducts(ctx context.Context, orgID int64) ([]TopProduct, error) {
	var rows []TopProduct
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/top-products/%d", orgID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesTrend returns daily organization-wide revenue.
func (c *Client) SalesTrend(ctx context.Context, orgID int64) ([]TrendPoint, error) {
	var points []TrendPoint
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/sales-trend/%d", orgID), nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}
