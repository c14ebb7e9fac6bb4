// Package staff serves the branch-scoped operational dashboard: inventory
// upkeep, barcode labels and the point-of-sale checkout.
package staff

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/barcode"
	"github.com/inventorypro/inventorypro-web/internal/guard"
	"github.com/inventorypro/inventorypro-web/internal/shared"
	"github.com/inventorypro/inventorypro-web/internal/view"
)

// Handler wires the staff dashboard routes.
type Handler struct {
	logger    *slog.Logger
	client    *api.Client
	templates *view.Engine
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	barcodes  barcode.Renderer
	validator *validator.Validate
}

// NewHandler constructs the staff dashboard handler.
func NewHandler(logger *slog.Logger, client *api.Client, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager, barcodes barcode.Renderer) *Handler {
	return &Handler{
		logger:    logger,
		client:    client,
		templates: templates,
		sessions:  sessions,
		csrf:      csrf,
		barcodes:  barcodes,
		validator: validator.New(),
	}
}

// MountRoutes registers staff routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showInventory)
	r.Post("/products", h.handleAddProduct)
	r.Post("/products/{productID}/restock", h.handleRestock)
	r.Get("/products/{productID}/barcode.png", h.handleBarcodePNG)
	r.Get("/products/{productID}/barcode", h.showBarcodePrint)
	r.Get("/pos", h.showPOS)
	r.Post("/pos/cart", h.handleCartAdd)
	r.Post("/pos/cart/{productID}", h.handleCartUpdate)
	r.Post("/pos/cart/{productID}/remove", h.handleCartRemove)
	r.Post("/pos/clear", h.handleCartClear)
	r.Post("/pos/checkout", h.handleCheckout)
}

type productForm struct {
	ProductName  string  `validate:"required"`
	ProductDesc  string  ``
	Category     string  ``
	ProductPrice float64 `validate:"gt=0"`
	Quantity     int     `validate:"gte=0"`
	Barcode      string  ``
	AutoBarcode  bool    ``
}

type inventoryPageData struct {
	HasScope bool
	Products []api.Product
	Form     productForm
	Errors   map[string]string
	Error    string
}

// fetchProducts loads the branch inventory. A missing branch or org scope
// is a "nothing to show" state rather than an error.
func (h *Handler) fetchProducts(r *http.Request) ([]api.Product, bool, error) {
	acct := shared.AccountFromContext(r.Context())
	if !acct.HasBranchScope() {
		return nil, false, nil
	}
	products, err := h.client.BranchInventory(r.Context(), acct.BranchID, acct.OrgID)
	if err != nil {
		return nil, true, err
	}
	return products, true, nil
}

// expireOn handles the global 401 contract: destroy the session and land on
// the login screen no matter which screen made the call.
func (h *Handler) expireOn(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	guard.Expire(h.sessions, w, r, shared.SessionFromContext(r.Context()))
	return true
}

func (h *Handler) showInventory(w http.ResponseWriter, r *http.Request) {
	data := inventoryPageData{Errors: map[string]string{}}
	products, hasScope, err := h.fetchProducts(r)
	if err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		h.logger.Error("load inventory", slog.Any("error", err))
		data.Error = api.UserMessage(err, "Failed to load inventory")
	}
	data.HasScope = hasScope
	data.Products = products
	h.renderInventory(w, r, data, http.StatusOK)
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()

	form, formErrors := parseProductForm(r)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				formErrors[fieldErr.Field()] = productFieldMessage(fieldErr)
			}
		}
	}
	if !acct.HasBranchScope() {
		formErrors["general"] = "Branch or organization information missing"
	}

	if len(formErrors) == 0 {
		code := strings.TrimSpace(form.Barcode)
		if code == "" && form.AutoBarcode {
			code = barcode.GenerateCode()
		}
		err := h.client.AddProduct(r.Context(), api.ProductInput{
			ProductName:  strings.TrimSpace(form.ProductName),
			ProductDesc:  form.ProductDesc,
			Category:     form.Category,
			ProductPrice: form.ProductPrice,
			Quantity:     form.Quantity,
			Barcode:      code,
			BranchID:     acct.BranchID,
			OrgID:        acct.OrgID,
		})
		if err != nil {
			if h.expireOn(w, r, err) {
				return
			}
			h.logger.Error("add product", slog.Any("error", err))
			formErrors["general"] = api.UserMessage(err, "Failed to add product")
		} else {
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: fmt.Sprintf("Product %q added", form.ProductName)})
			http.Redirect(w, r, "/staff", http.StatusSeeOther)
			return
		}
	}

	data := inventoryPageData{Form: form, Errors: formErrors}
	products, hasScope, err := h.fetchProducts(r)
	if err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		data.Error = api.UserMessage(err, "Failed to load inventory")
	}
	data.HasScope = hasScope
	data.Products = products
	h.renderInventory(w, r, data, http.StatusBadRequest)
}

func (h *Handler) handleRestock(w http.ResponseWriter, r *http.Request) {
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

	delta, err := strconv.Atoi(r.PostFormValue("amount"))
	if err != nil || delta <= 0 {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Please enter a valid positive quantity"})
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return
	}

	product, ok := h.findProduct(w, r, productID)
	if product == nil {
		if ok {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Product not found"})
			http.Redirect(w, r, "/staff", http.StatusSeeOther)
		}
		return
	}

	// The new quantity is computed here and sent as an absolute value.
	newQuantity := product.Quantity + delta
	if err := h.client.RestockProduct(r.Context(), productID, newQuantity); err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		h.logger.Error("restock product", slog.Int64("product_id", productID), slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: api.UserMessage(err, "Failed to restock product")})
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return
	}

	sess.AddFlash(shared.FlashMessage{
		Kind:    "success",
		Message: fmt.Sprintf("Restocked %s! Added: %d. New quantity: %d", product.ProductName, delta, newQuantity),
	})
	http.Redirect(w, r, "/staff", http.StatusSeeOther)
}

func (h *Handler) handleBarcodePNG(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	product, ok := h.findProduct(w, r, productID)
	if product == nil {
		if ok {
			http.NotFound(w, r)
		}
		return
	}
	if product.Barcode == "" {
		sess := shared.SessionFromContext(r.Context())
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "This product has no barcode"})
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return
	}

	img, err := h.barcodes.PNG(product.Barcode, 280, 90)
	if err != nil {
		h.logger.Error("render barcode", slog.String("code", product.Barcode), slog.Any("error", err))
		http.Error(w, "Invalid barcode format", http.StatusUnprocessableEntity)
		return
	}

	name := strings.ReplaceAll(product.ProductName, " ", "_")
	w.Header().Set("Content-Type", "image/png")
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=barcode_%s_%s.png", product.Barcode, name))
	}
	_, _ = w.Write(img)
}

type barcodePrintData struct {
	Product api.Product
}

func (h *Handler) showBarcodePrint(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	product, ok := h.findProduct(w, r, productID)
	if product == nil {
		if ok {
			http.NotFound(w, r)
		}
		return
	}
	if product.Barcode == "" {
		sess := shared.SessionFromContext(r.Context())
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "This product has no barcode"})
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return
	}
	h.render(w, r, "pages/staff/barcode_print.html", "Print Barcode", barcodePrintData{Product: *product}, http.StatusOK)
}

// findProduct resolves one product from the branch inventory. The boolean
// reports whether the caller still owns the response.
func (h *Handler) findProduct(w http.ResponseWriter, r *http.Request, productID int64) (*api.Product, bool) {
	products, _, err := h.fetchProducts(r)
	if err != nil {
		if h.expireOn(w, r, err) {
			return nil, false
		}
		sess := shared.SessionFromContext(r.Context())
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: api.UserMessage(err, "Failed to load inventory")})
		http.Redirect(w, r, "/staff", http.StatusSeeOther)
		return nil, false
	}
	for i := range products {
		if products[i].ProductID == productID {
			return &products[i], true
		}
	}
	return nil, true
}

func (h *Handler) renderInventory(w http.ResponseWriter, r *http.Request, data inventoryPageData, status int) {
	h.render(w, r, "pages/staff/inventory.html", "Staff Dashboard", data, status)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		Account:     sess.Account(),
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render staff page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func parseProductForm(r *http.Request) (productForm, map[string]string) {
	formErrors := map[string]string{}
	form := productForm{
		ProductName: r.PostFormValue("product_name"),
		ProductDesc: r.PostFormValue("product_desc"),
		Category:    r.PostFormValue("category"),
		Barcode:     r.PostFormValue("barcode"),
		AutoBarcode: r.PostFormValue("auto_barcode") == "1",
	}
	if raw := r.PostFormValue("product_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			formErrors["ProductPrice"] = "Price must be a number"
		} else {
			form.ProductPrice = price
		}
	}
	if raw := r.PostFormValue("quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			formErrors["Quantity"] = "Quantity must be a whole number"
		} else {
			form.Quantity = qty
		}
	}
	return form, formErrors
}

func productFieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Field() {
	case "ProductName":
		return "Product name is required"
	case "ProductPrice":
		return "Price must be positive"
	case "Quantity":
		return "Quantity cannot be negative"
	}
	return "Invalid value"
}
