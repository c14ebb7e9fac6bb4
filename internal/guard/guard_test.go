package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inventorypro/inventorypro-web/internal/guard"
	"github.com/inventorypro/inventorypro-web/internal/shared"
	_ "github.com/inventorypro/inventorypro-web/testing"
)

func protected(t *testing.T, role string, acct *shared.Account, path string) *httptest.ResponseRecorder {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := guard.RequireRole(role)(next)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	sess := &shared.Session{}
	if acct != nil {
		sess.SetAccount(*acct)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	res := protected(t, shared.RoleAdmin, nil, "/admin")
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}

func TestRequireRoleWrongRole(t *testing.T) {
	acct := &shared.Account{Username: "cashier", Role: shared.RoleStaff, BranchID: 1, OrgID: 1}
	res := protected(t, shared.RoleAdmin, acct, "/admin")
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/staff" {
		t.Fatalf("expected redirect to own dashboard, got %q", loc)
	}
}

func TestRequireRoleAllows(t *testing.T) {
	acct := &shared.Account{Username: "boss", Role: shared.RoleAdmin, OrgID: 1}
	res := protected(t, shared.RoleAdmin, acct, "/admin")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestExpireDestroysSessionAndRedirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	sess := &shared.Session{}
	sess.SetAccount(shared.Account{Username: "cashier", Role: shared.RoleStaff, BranchID: 1, OrgID: 1})
	res := httptest.NewRecorder()

	guard.Expire(nil, res, req, nil)
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}
