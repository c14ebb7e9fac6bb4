// Package manager serves the branch manager dashboard: branch overview,
// inventory, sales performance and staff registration.
package manager

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/guard"
	"github.com/inventorypro/inventorypro-web/internal/reports"
	"github.com/inventorypro/inventorypro-web/internal/reports/svg"
	"github.com/inventorypro/inventorypro-web/internal/shared"
	"github.com/inventorypro/inventorypro-web/internal/view"
)

// Handler wires the manager dashboard routes.
type Handler struct {
	logger    *slog.Logger
	client    *api.Client
	templates *view.Engine
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	builder   *reports.Builder
	renderer  reports.Renderer
	validator *validator.Validate
}

// NewHandler constructs the manager dashboard handler.
func NewHandler(logger *slog.Logger, client *api.Client, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager, builder *reports.Builder, renderer reports.Renderer) *Handler {
	return &Handler{
		logger:    logger,
		client:    client,
		templates: templates,
		sessions:  sessions,
		csrf:      csrf,
		builder:   builder,
		renderer:  renderer,
		validator: validator.New(),
	}
}

// MountRoutes registers manager routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showOverview)
	r.Get("/inventory", h.showInventory)
	r.Get("/sales", h.showSales)
	r.Get("/staff", h.showStaff)
	r.Post("/staff", h.handleRegisterStaff)
	r.Get("/report", h.handleReportDownload)
}

type overviewPageData struct {
	HasScope bool
	Branch   *api.Branch
	Error    string
}

func (h *Handler) showOverview(w http.ResponseWriter, r *http.Request) {
	acct := shared.AccountFromContext(r.Context())
	data := overviewPageData{}
	if acct != nil && acct.HasBranchScope() {
		data.HasScope = true
		branch, err := h.client.ManagerBranch(r.Context(), acct.BranchID, acct.OrgID)
		if err != nil {
			if h.expireOn(w, r, err) {
				return
			}
			h.logger.Error("load manager branch", slog.Any("error", err))
			data.Error = api.UserMessage(err, "Failed to load branch information")
		} else {
			data.Branch = branch
		}
	}
	h.render(w, r, "pages/manager/overview.html", "Branch Overview", data)
}

type inventoryPageData struct {
	HasScope bool
	Products []api.Product
	Error    string
}

func (h *Handler) showInventory(w http.ResponseWriter, r *http.Request) {
	acct := shared.AccountFromContext(r.Context())
	data := inventoryPageData{}
	if acct != nil && acct.HasBranchScope() {
		data.HasScope = true
		products, err := h.client.ManagerInventory(r.Context(), acct.BranchID, acct.OrgID)
		if err != nil {
			if h.expireOn(w, r, err) {
				return
			}
			h.logger.Error("load manager inventory", slog.Any("error", err))
			data.Error = api.UserMessage(err, "Failed to load inventory")
		} else {
			data.Products = products
		}
	}
	h.render(w, r, "pages/manager/inventory.html", "Branch Inventory", data)
}

type salesPageData struct {
	HasScope          bool
	Sales             []api.BranchSalesRow
	TotalRevenue      float64
	TotalTransactions int
	AvgTransaction    float64
	Chart             any
	CanExport         bool
	Error             string
}

func (h *Handler) showSales(w http.ResponseWriter, r *http.Request) {
	acct := shared.AccountFromContext(r.Context())
	data := salesPageData{}
	if acct == nil || !acct.HasBranchScope() {
		h.render(w, r, "pages/manager/sales.html", "Branch Sales", data)
		return
	}
	data.HasScope = true

	rows, err := h.client.ManagerSales(r.Context(), acct.BranchID, acct.OrgID)
	if err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		h.logger.Error("load manager sales", slog.Any("error", err))
		data.Error = api.UserMessage(err, "Failed to load sales data")
		h.render(w, r, "pages/manager/sales.html", "Branch Sales", data)
		return
	}
	data.Sales = rows
	for _, row := range rows {
		data.TotalRevenue += row.TotalSales
		data.TotalTransactions += row.TransactionCount
	}
	if data.TotalTransactions > 0 {
		data.AvgTransaction = data.TotalRevenue / float64(data.TotalTransactions)
	}
	data.CanExport = len(rows) > 0

	if len(rows) > 0 {
		labels := make([]string, 0, len(rows))
		series := make([]float64, 0, len(rows))
		for _, row := range rows {
			labels = append(labels, row.Date)
			series = append(series, row.TotalSales)
		}
		chart, err := svg.Bars(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.BarOpts{
			Title:       "Daily Sales",
			Description: "Daily branch revenue",
			SeriesLabel: "Revenue",
		})
		if err != nil {
			h.logger.Warn("render sales chart", slog.Any("error", err))
		} else {
			data.Chart = chart
		}
	}

	h.render(w, r, "pages/manager/sales.html", "Branch Sales", data)
}

type staffForm struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=6"`
}

type staffPageData struct {
	HasScope bool
	Form     staffForm
	Errors   map[string]string
}

func (h *Handler) showStaff(w http.ResponseWriter, r *http.Request) {
	acct := shared.AccountFromContext(r.Context())
	data := staffPageData{Errors: map[string]string{}}
	data.HasScope = acct != nil && acct.HasBranchScope()
	h.render(w, r, "pages/manager/staff.html", "Register Staff", data)
}

func (h *Handler) handleRegisterStaff(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()
	if acct == nil || !acct.HasBranchScope() {
		http.Redirect(w, r, "/manager/staff", http.StatusSeeOther)
		return
	}

	form := staffForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	formErrors := map[string]string{}
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				if fieldErr.Field() == "Username" {
					formErrors["Username"] = "Username must be at least 3 characters"
				} else {
					formErrors["Password"] = "Password must be at least 6 characters"
				}
			}
		}
	}

	if len(formErrors) == 0 {
		err := h.client.RegisterStaff(r.Context(), api.RegisterStaffInput{
			Username: form.Username,
			Password: form.Password,
			BranchID: acct.BranchID,
			OrgID:    acct.OrgID,
		})
		if err != nil {
			if h.expireOn(w, r, err) {
				return
			}
			h.logger.Error("register staff", slog.Any("error", err))
			formErrors["general"] = api.UserMessage(err, "Failed to register staff member")
		} else {
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Staff member registered successfully"})
			http.Redirect(w, r, "/manager/staff", http.StatusSeeOther)
			return
		}
	}

	data := staffPageData{HasScope: true, Form: form, Errors: formErrors}
	w.WriteHeader(http.StatusBadRequest)
	h.render(w, r, "pages/manager/staff.html", "Register Staff", data)
}

func (h *Handler) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()
	if acct == nil || !acct.HasBranchScope() {
		http.Redirect(w, r, "/manager/sales", http.StatusSeeOther)
		return
	}

	rows, err := h.client.ManagerSales(r.Context(), acct.BranchID, acct.OrgID)
	if err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: api.UserMessage(err, "Failed to load sales data")})
		http.Redirect(w, r, "/manager/sales", http.StatusSeeOther)
		return
	}

	branchName := "Branch"
	location := ""
	if branch, err := h.client.ManagerBranch(r.Context(), acct.BranchID, acct.OrgID); err == nil && branch != nil {
		branchName = branch.BranchName
		location = branch.Location
	}

	html, err := h.builder.BranchSalesHTML(reports.BranchReportData{
		BranchName:  branchName,
		Location:    location,
		Manager:     acct.Username,
		GeneratedAt: time.Now(),
		Sales:       rows,
	})
	if err != nil {
		if errors.Is(err, reports.ErrNoSalesData) {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "No sales data available to generate report"})
		} else {
			h.logger.Error("build branch report", slog.Any("error", err))
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Failed to generate report"})
		}
		http.Redirect(w, r, "/manager/sales", http.StatusSeeOther)
		return
	}

	pdf, err := h.renderer.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render branch report", slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Report rendering is unavailable right now"})
		http.Redirect(w, r, "/manager/sales", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+reports.Filename(branchName, time.Now()))
	_, _ = w.Write(pdf)
}

func (h *Handler) expireOn(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	guard.Expire(h.sessions, w, r, shared.SessionFromContext(r.Context()))
	return true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
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
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render manager page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
