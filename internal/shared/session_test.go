package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/inventorypro/inventorypro-web/internal/shared"
	_ "github.com/inventorypro/inventorypro-web/testing"
)

func newManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetAccount(shared.Account{Username: "boss", Role: shared.RoleAdmin, OrgID: 5, OrgName: "Acme"})
	sess.Set("theme", "dark")

	res := httptest.NewRecorder()
	if err := sm.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookies := res.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie")
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(ctx, next)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	acct := loaded.Account()
	if acct == nil || acct.Username != "boss" || acct.OrgID != 5 {
		t.Fatalf("account not restored: %+v", acct)
	}
	if loaded.Get("theme") != "dark" {
		t.Fatalf("value not restored")
	}
}

func TestSessionDestroy(t *testing.T) {
	sm := newManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetAccount(shared.Account{Username: "cashier", Role: shared.RoleStaff, BranchID: 1, OrgID: 1})
	res := httptest.NewRecorder()
	if err := sm.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	sm.Destroy(sess)
	res2 := httptest.NewRecorder()
	if err := sm.Commit(ctx, res2, req, sess); err != nil {
		t.Fatalf("commit destroy: %v", err)
	}
	var cleared bool
	for _, c := range res2.Result().Cookies() {
		if c.Name == sm.CookieName() && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected cookie cleared on destroy")
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: sess.ID})
	loaded, err := sm.Load(ctx, next)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Account() != nil {
		t.Fatalf("account should be gone after destroy")
	}
}

func TestFlashDrainsOnce(t *testing.T) {
	sess := &shared.Session{}
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Welcome back"})

	first := sess.PopFlash()
	if first == nil || first.Message != "Welcome back" {
		t.Fatalf("unexpected flash: %+v", first)
	}
	if sess.PopFlash() != nil {
		t.Fatalf("flash should drain after one pop")
	}
}

func TestCSRFTokenLifecycle(t *testing.T) {
	manager := shared.NewCSRFManager("csrfsecret")
	sess := &shared.Session{ID: "abc"}

	token, err := manager.EnsureToken(context.Background(), sess)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}

	again, err := manager.EnsureToken(context.Background(), sess)
	if err != nil || again != token {
		t.Fatalf("token should be stable per session")
	}

	if err := manager.VerifyToken(context.Background(), sess, token); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := manager.VerifyToken(context.Background(), sess, "forged"); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if err := manager.VerifyToken(context.Background(), sess, ""); err == nil {
		t.Fatalf("expected missing token error")
	}
}

func TestDashboardPath(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{shared.RoleAdmin, "/admin"},
		{shared.RoleManager, "/manager"},
		{shared.RoleStaff, "/staff"},
		{"intruder", "/"},
	}
	for _, tc := range cases {
		acct := shared.Account{Role: tc.role}
		if got := acct.DashboardPath(); got != tc.want {
			t.Fatalf("role %q: expected %q, got %q", tc.role, tc.want, got)
		}
	}
	var missing *shared.Account
	if got := missing.DashboardPath(); got != "/" {
		t.Fatalf("nil account should land on login, got %q", got)
	}
}
