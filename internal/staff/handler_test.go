package staff_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/barcode"
	"github.com/inventorypro/inventorypro-web/internal/shared"
	"github.com/inventorypro/inventorypro-web/internal/staff"
	"github.com/inventorypro/inventorypro-web/internal/view"
	_ "github.com/inventorypro/inventorypro-web/testing"
)

// newStaffRouter wires the staff handler against a fake upstream. The same
// session instance is reused across requests so the cart survives redirects.
func newStaffRouter(t *testing.T, upstream http.Handler) (http.Handler, *shared.Session) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(srv.URL, time.Second)
	handler := staff.NewHandler(logger, client, templates, sessionManager, csrfManager, barcode.Code128Renderer{})

	sess := &shared.Session{}
	sess.SetAccount(shared.Account{Username: "cashier", Role: shared.RoleStaff, BranchID: 2, OrgID: 9, OrgName: "Acme"})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	handler.MountRoutes(r)
	return r, sess
}

func inventoryUpstream(products []api.Product) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/inventory/2/9", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(products)
	})
	return mux
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestStaffInventoryPage(t *testing.T) {
	router, _ := newStaffRouter(t, inventoryUpstream([]api.Product{
		{ProductID: 7, ProductName: "Widget", Category: "Hardware", ProductPrice: 10, Quantity: 3, Barcode: "123456789012"},
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	for _, want := range []string{"Widget", "123456789012", "Add Product"} {
		if !strings.Contains(body, want) {
			t.Fatalf("inventory page missing %q", want)
		}
	}
}

func TestStaffRestockSendsAbsoluteQuantity(t *testing.T) {
	var restocked struct {
		Quantity int `json:"quantity"`
	}
	mux := inventoryUpstream([]api.Product{
		{ProductID: 7, ProductName: "Widget", ProductPrice: 10, Quantity: 3},
	})
	mux.HandleFunc("/products/restock/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&restocked)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Restocked"})
	})
	router, sess := newStaffRouter(t, mux)

	form := url.Values{}
	form.Set("amount", "5")
	res := postForm(t, router, "/products/7/restock", form)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if restocked.Quantity != 8 {
		t.Fatalf("expected absolute quantity 8, got %d", restocked.Quantity)
	}
	flash := sess.PopFlash()
	if flash == nil || !strings.Contains(flash.Message, "New quantity: 8") {
		t.Fatalf("unexpected flash: %+v", flash)
	}
}

func TestStaffRestockRejectsNonPositiveAmount(t *testing.T) {
	router, sess := newStaffRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("upstream should not be called for invalid amount")
	}))

	form := url.Values{}
	form.Set("amount", "-2")
	res := postForm(t, router, "/products/7/restock", form)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "error" {
		t.Fatalf("expected error flash, got %+v", flash)
	}
}

func TestStaffBarcodePNG(t *testing.T) {
	router, _ := newStaffRouter(t, inventoryUpstream([]api.Product{
		{ProductID: 7, ProductName: "Widget", Quantity: 3, Barcode: "123456789012"},
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/7/barcode.png?download=1", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got := res.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("unexpected content type %q", got)
	}
	if disposition := res.Header().Get("Content-Disposition"); !strings.Contains(disposition, "barcode_123456789012_Widget.png") {
		t.Fatalf("unexpected disposition %q", disposition)
	}
}

func TestStaffCartAddClampsToStock(t *testing.T) {
	router, sess := newStaffRouter(t, inventoryUpstream([]api.Product{
		{ProductID: 7, ProductName: "Widget", ProductPrice: 10, Quantity: 2},
	}))

	form := url.Values{}
	form.Set("product_id", "7")

	for i := 0; i < 2; i++ {
		res := postForm(t, router, "/pos/cart", form)
		if res.Code != http.StatusSeeOther {
			t.Fatalf("add %d: expected redirect, got %d", i, res.Code)
		}
		if flash := sess.PopFlash(); flash != nil {
			t.Fatalf("add %d: unexpected flash %+v", i, flash)
		}
	}

	// Third add exceeds the 2 units in stock.
	res := postForm(t, router, "/pos/cart", form)
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	flash := sess.PopFlash()
	if flash == nil || !strings.Contains(flash.Message, "Only 2 in stock") {
		t.Fatalf("expected stock limit flash, got %+v", flash)
	}

	req := httptest.NewRequest(http.MethodGet, "/pos", nil)
	page := httptest.NewRecorder()
	router.ServeHTTP(page, req)
	if !strings.Contains(page.Body.String(), "20.00") {
		t.Fatalf("cart total should remain at two units")
	}
}

func TestStaffCheckoutSendsSaleAndClearsCart(t *testing.T) {
	var sale api.SaleInput
	mux := inventoryUpstream([]api.Product{
		{ProductID: 7, ProductName: "Widget", ProductPrice: 10, Quantity: 5},
	})
	mux.HandleFunc("/sales/create", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sale)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Sale recorded"})
	})
	router, sess := newStaffRouter(t, mux)

	form := url.Values{}
	form.Set("product_id", "7")
	postForm(t, router, "/pos/cart", form)
	postForm(t, router, "/pos/cart", form)

	res := postForm(t, router, "/pos/checkout", url.Values{})
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if sale.BranchID != 2 || sale.OrgID != 9 || sale.TotalAmount != 20 {
		t.Fatalf("unexpected sale payload: %+v", sale)
	}
	if len(sale.Items) != 1 || sale.Items[0].Quantity != 2 || sale.Items[0].UnitPrice != 10 {
		t.Fatalf("unexpected sale items: %+v", sale.Items)
	}
	flash := sess.PopFlash()
	if flash == nil || !strings.Contains(flash.Message, "Sale completed") {
		t.Fatalf("unexpected flash: %+v", flash)
	}

	res = postForm(t, router, "/pos/checkout", url.Values{})
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	flash = sess.PopFlash()
	if flash == nil || flash.Message != "Cart is empty" {
		t.Fatalf("cart should be empty after checkout, got %+v", flash)
	}
}

func TestStaffCheckoutUnauthorizedExpiresSession(t *testing.T) {
	mux := inventoryUpstream([]api.Product{
		{ProductID: 7, ProductName: "Widget", ProductPrice: 10, Quantity: 5},
	})
	mux.HandleFunc("/sales/create", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	router, _ := newStaffRouter(t, mux)

	form := url.Values{}
	form.Set("product_id", "7")
	postForm(t, router, "/pos/cart", form)

	res := postForm(t, router, "/pos/checkout", url.Values{})
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", res.Code)
	}
	if loc := res.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}
