package api

import (
	"context"
	"fmt"
	"net/http"
)

// ManagerBranch fetches the manager's branch record.
func (c *Client) ManagerBranch(ctx context.Context, branchID, orgID int64) (*Branch, error) {
	var branch Branch
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/manager/branch/%d/%d", branchID, orgID), nil, &branch); err != nil {
		return nil, err
	}
	return &branch, nil
}

// ManagerInventory lists the branch inventory via the manager endpoint.
func (c *Client) ManagerInventory(ctx context.Context, branchID, orgID int64) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/manager/inventory/%d/%d", branchID, orgID), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ManagerSales returns the branch's daily sales rows.
func (c *Client) ManagerSales(ctx context.Context, branchID, orgID int64) ([]BranchSalesRow, error) {
	var rows []BranchSalesRow
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/manager/sales/%d/%d", branchID, orgID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
