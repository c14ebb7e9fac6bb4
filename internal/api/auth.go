package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for the session record.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	payload := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterOrganizationResult reports the outcome of organization signup.
type RegisterOrganizationResult struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// RegisterOrganization creates a new organization with its admin account.
func (c *Client) RegisterOrganization(ctx context.Context, username, password, organizationName string) (*RegisterOrganizationResult, error) {
	payload := map[string]string{
		"username":         username,
		"password":         password,
		"organizationName": organizationName,
	}
	var result RegisterOrganizationResult
	if err := c.do(ctx, http.MethodPost, "/register-organization", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterUser creates an admin or manager account within the organization.
func (c *Client) RegisterUser(ctx context.Context, input RegisterUserInput) error {
	return c.do(ctx, http.MethodPost, "/register", input, nil)
}

// RegisterStaff creates a staff account via the manager endpoint.
func (c *Client) RegisterStaff(ctx context.Context, input RegisterStaffInput) error {
	return c.do(ctx, http.MethodPost, "/manager/register-staff", input, nil)
}

// DeleteUser removes a user account from the organization.
func (c *Client) DeleteUser(ctx context.Context, userID, orgID int64) error {
	payload := map[string]int64{"org_id": orgID}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", userID), payload, nil)
}

// OrgUsers lists the organization's user accounts.
func (c *Client) OrgUsers(ctx context.Context, orgID int64) ([]OrgUser, error) {
	var users []OrgUser
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%d", orgID), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
