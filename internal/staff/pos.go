package staff

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/shared"
)

type posPageData struct {
	HasScope bool
	Query    string
	Results  []api.Product
	Cart     *Cart
	Total    float64
	Error    string
}

func (h *Handler) showPOS(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	data := posPageData{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Cart:  loadCart(sess),
	}
	data.Total = data.Cart.Total()

	products, hasScope, err := h.fetchProducts(r)
	if err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		h.logger.Error("load pos inventory", slog.Any("error", err))
		data.Error = api.UserMessage(err, "Failed to load inventory")
	}
	data.HasScope = hasScope
	if data.Query != "" {
		data.Results = filterProducts(products, data.Query)
	}

	h.render(w, r, "pages/staff/pos.html", "Point of Sale", data, http.StatusOK)
}

// filterProducts matches the POS search against name, barcode and category.
func filterProducts(products []api.Product, query string) []api.Product {
	needle := strings.ToLower(query)
	var matched []api.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.ProductName), needle) ||
			strings.Contains(p.Barcode, query) ||
			strings.Contains(strings.ToLower(p.Category), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (h *Handler) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	productID, err := strconv.ParseInt(r.PostFormValue("product_id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	product, ok := h.findProduct(w, r, productID)
	if product == nil {
		if ok {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Product not found"})
			h.redirectPOS(w, r)
		}
		return
	}

	cart := loadCart(sess)
	switch err := cart.Add(*product); err {
	case nil:
		saveCart(sess, cart)
	case ErrOutOfStock:
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: fmt.Sprintf("%s is out of stock", product.ProductName)})
	case ErrExceedsStock:
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: fmt.Sprintf("Only %d in stock for %s", product.Quantity, product.ProductName)})
	default:
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Could not add product to cart"})
	}
	h.redirectPOS(w, r)
}

func (h *Handler) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Quantity must be a whole number"})
		h.redirectPOS(w, r)
		return
	}

	cart := loadCart(sess)
	switch err := cart.SetQuantity(productID, quantity); err {
	case nil:
		saveCart(sess, cart)
	case ErrExceedsStock:
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Requested quantity exceeds available stock"})
	case ErrNotInCart:
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Product is not in the cart"})
	}
	h.redirectPOS(w, r)
}

func (h *Handler) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	cart := loadCart(sess)
	cart.Remove(productID)
	saveCart(sess, cart)
	h.redirectPOS(w, r)
}

func (h *Handler) handleCartClear(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	cart := loadCart(sess)
	cart.Clear()
	saveCart(sess, cart)
	h.redirectPOS(w, r)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()
	cart := loadCart(sess)

	if cart.IsEmpty() {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Cart is empty"})
		h.redirectPOS(w, r)
		return
	}
	if !acct.HasBranchScope() {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Branch or organization information missing"})
		h.redirectPOS(w, r)
		return
	}

	total := cart.Total()
	err := h.client.CreateSale(r.Context(), api.SaleInput{
		BranchID:    acct.BranchID,
		OrgID:       acct.OrgID,
		Items:       cart.SaleItems(),
		TotalAmount: total,
	})
	if err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		h.logger.Error("create sale", slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: api.UserMessage(err, "Failed to process sale")})
		h.redirectPOS(w, r)
		return
	}

	// The redirect re-fetches inventory, picking up the server's
	// authoritative post-sale stock.
	cart.Clear()
	saveCart(sess, cart)
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: fmt.Sprintf("Sale completed! Total: PHP %.2f", total)})
	h.redirectPOS(w, r)
}

func (h *Handler) redirectPOS(w http.ResponseWriter, r *http.Request) {
	target := "/staff/pos"
	if q := strings.TrimSpace(r.PostFormValue("q")); q != "" {
		target += "?q=" + url.QueryEscape(q)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
