// Package api is the HTTP client for the remote inventory REST API. Every
// piece of business data shown by the dashboards is fetched through it; the
// frontend never owns that data, it only caches responses per request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/inventorypro/inventorypro-web/internal/shared"
)

// ErrUnauthorized is returned for any upstream 401. Callers must treat it as
// a global session invalidation signal, independent of which screen issued
// the call.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error carries a non-2xx upstream response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// UserMessage returns a message safe to show to the user. Upstream messages
// are surfaced verbatim; anything else gets the fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client wraps outgoing requests with a fixed base URL. Requests are issued
// exactly once: no retry, no backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// do performs one JSON request. The logged-in account, when present in ctx,
// is attached as identification headers.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if acct := shared.AccountFromContext(ctx); acct != nil {
		req.Header.Set("X-Username", acct.Username)
		req.Header.Set("X-Org-ID", strconv.FormatInt(acct.OrgID, 10))
		if acct.BranchID != 0 {
			req.Header.Set("X-Branch-ID", strconv.FormatInt(acct.BranchID, 10))
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var envelope messageEnvelope
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(data, &envelope)
		return &Error{Status: resp.StatusCode, Message: envelope.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}
