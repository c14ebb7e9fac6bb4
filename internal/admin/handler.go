// Package admin serves the organization-wide dashboard: branch and user
// management plus aggregate inventory and sales views.
package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/inventorypro/inventorypro-web/internal/api"
	"github.com/inventorypro/inventorypro-web/internal/guard"
	"github.com/inventorypro/inventorypro-web/internal/reports"
	"github.com/inventorypro/inventorypro-web/internal/reports/svg"
	"github.com/inventorypro/inventorypro-web/internal/shared"
	"github.com/inventorypro/inventorypro-web/internal/view"
	"github.com/inventorypro/inventorypro-web/jobs"
)

// Handler wires the admin dashboard routes.
type Handler struct {
	logger    *slog.Logger
	client    *api.Client
	templates *view.Engine
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	builder   *reports.Builder
	renderer  reports.Renderer
	queue     *asynq.Client
	validator *validator.Validate
}

// NewHandler constructs the admin dashboard handler. The queue client is
// optional; without it on-demand report jobs are disabled.
func NewHandler(logger *slog.Logger, client *api.Client, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager, builder *reports.Builder, renderer reports.Renderer, queue *asynq.Client) *Handler {
	return &Handler{
		logger:    logger,
		client:    client,
		templates: templates,
		sessions:  sessions,
		csrf:      csrf,
		builder:   builder,
		renderer:  renderer,
		queue:     queue,
		validator: validator.New(),
	}
}

// MountRoutes registers admin routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showOverview)
	r.Get("/branches", h.showBranches)
	r.Post("/branches", h.handleCreateBranch)
	r.Get("/branches/{branchID}/inventory", h.showBranchInventory)
	r.Get("/users", h.showUsers)
	r.Post("/users", h.handleRegisterUser)
	r.Post("/users/{userID}/delete", h.handleDeleteUser)
	r.Get("/report", h.handleReportDownload)
	r.Post("/report/queue", h.handleReportQueue)
}

type overviewPageData struct {
	HasScope         bool
	InventorySummary []api.InventorySummaryRow
	SalesSummary     []api.SalesSummaryRow
	TopProducts      []api.TopProduct
	SalesTrend       []api.TrendPoint
	TrendChart       any
	TotalRevenue     float64
	CanExport        bool
	QueueEnabled     bool
	Error            string
}

func (h *Handler) showOverview(w http.ResponseWriter, r *http.Request) {
	acct := shared.AccountFromContext(r.Context())
	data := overviewPageData{QueueEnabled: h.queue != nil}
	if acct == nil || acct.OrgID == 0 {
		h.render(w, r, "pages/admin/overview.html", "Organization Overview", data)
		return
	}
	data.HasScope = true
	orgID := acct.OrgID

	// The overview fires its four reads in parallel; each goroutine owns
	// one state slice.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		rows, err := h.client.InventorySummary(ctx, orgID)
		if err != nil {
			return err
		}
		data.InventorySummary = rows
		return nil
	})
	g.Go(func() error {
		rows, err := h.client.SalesSummary(ctx, orgID)
		if err != nil {
			return err
		}
		data.SalesSummary = rows
		return nil
	})
	g.Go(func() error {
		rows, err := h.client.TopProducts(ctx, orgID)
		if err != nil {
			return err
		}
		data.TopProducts = rows
		return nil
	})
	g.Go(func() error {
		points, err := h.client.SalesTrend(ctx, orgID)
		if err != nil {
			return err
		}
		data.SalesTrend = points
		return nil
	})
	if err := g.Wait(); err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		h.logger.Error("load admin overview", slog.Any("error", err))
		data.Error = api.UserMessage(err, "Failed to load overview data")
	}

	for _, row := range data.SalesSummary {
		data.TotalRevenue += row.TotalRevenue
	}
	data.CanExport = len(data.SalesSummary) > 0

	if len(data.SalesTrend) > 0 {
		labels := make([]string, 0, len(data.SalesTrend))
		series := make([]float64, 0, len(data.SalesTrend))
		for _, point := range data.SalesTrend {
			labels = append(labels, point.Date)
			series = append(series, point.DailyRevenue)
		}
		chart, err := svg.Line(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.LineOpts{
			Title:       "Sales Trend",
			Description: "Daily organization revenue",
			FillColor:   "#e0f2fe",
			ShowDots:    true,
		})
		if err != nil {
			h.logger.Warn("render trend chart", slog.Any("error", err))
		} else {
			data.TrendChart = chart
		}
	}

	h.render(w, r, "pages/admin/overview.html", "Organization Overview", data)
}

type branchForm struct {
	BranchName string `validate:"required"`
	Location   string `validate:"required"`
}

type branchesPageData struct {
	HasScope bool
	Branches []api.Branch
	Form     branchForm
	Errors   map[string]string
	Error    string
}

func (h *Handler) showBranches(w http.ResponseWriter, r *http.Request) {
	data := h.loadBranchesPage(w, r, branchesPageData{Errors: map[string]string{}})
	if data == nil {
		return
	}
	h.render(w, r, "pages/admin/branches.html", "Branches", *data)
}

func (h *Handler) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()

	form := branchForm{
		BranchName: r.PostFormValue("branch_name"),
		Location:   r.PostFormValue("location"),
	}
	formErrors := map[string]string{}
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				formErrors[fieldErr.Field()] = "This field is required"
			}
		}
	}

	if len(formErrors) == 0 {
		err := h.client.CreateBranch(r.Context(), api.BranchInput{
			BranchName: form.BranchName,
			Location:   form.Location,
			OrgID:      acct.OrgID,
		})
		if err != nil {
			if h.expireOn(w, r, err) {
				return
			}
			h.logger.Error("create branch", slog.Any("error", err))
			formErrors["general"] = api.UserMessage(err, "Failed to create branch")
		} else {
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Branch created successfully"})
			http.Redirect(w, r, "/admin/branches", http.StatusSeeOther)
			return
		}
	}

	data := h.loadBranchesPage(w, r, branchesPageData{Form: form, Errors: formErrors})
	if data == nil {
		return
	}
	w.WriteHeader(http.StatusBadRequest)
	h.render(w, r, "pages/admin/branches.html", "Branches", *data)
}

// loadBranchesPage fetches the branch list into the page data. A nil return
// means the response was already written.
func (h *Handler) loadBranchesPage(w http.ResponseWriter, r *http.Request, data branchesPageData) *branchesPageData {
	acct := shared.AccountFromContext(r.Context())
	if acct == nil || acct.OrgID == 0 {
		return &data
	}
	data.HasScope = true
	branches, err := h.client.Branches(r.Context(), acct.OrgID)
	if err != nil {
		if h.expireOn(w, r, err) {
			return nil
		}
		h.logger.Error("load branches", slog.Any("error", err))
		data.Error = api.UserMessage(err, "Failed to load branches")
		return &data
	}
	data.Branches = branches
	return &data
}

type branchInventoryPageData struct {
	Branch   *api.Branch
	BranchID int64
	Products []api.Product
	Error    string
}

func (h *Handler) showBranchInventory(w http.ResponseWriter, r *http.Request) {
	acct := shared.AccountFromContext(r.Context())
	branchID, err := strconv.ParseInt(chi.URLParam(r, "branchID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data := branchInventoryPageData{BranchID: branchID}
	if acct != nil && acct.OrgID != 0 {
		products, err := h.client.BranchInventory(r.Context(), branchID, acct.OrgID)
		if err != nil {
			if h.expireOn(w, r, err) {
				return
			}
			h.logger.Error("load branch inventory", slog.Int64("branch_id", branchID), slog.Any("error", err))
			data.Error = api.UserMessage(err, "Failed to load branch inventory")
		} else {
			data.Products = products
		}
		if branches, err := h.client.Branches(r.Context(), acct.OrgID); err == nil {
			for i := range branches {
				if branches[i].BranchID == branchID {
					data.Branch = &branches[i]
					break
				}
			}
		}
	}
	h.render(w, r, "pages/admin/branch_inventory.html", "Branch Inventory", data)
}

type userForm struct {
	Username string `validate:"required,min=3"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=admin manager"`
	BranchID string ``
}

type usersPageData struct {
	HasScope bool
	Users    []api.OrgUser
	Branches []api.Branch
	Form     userForm
	Errors   map[string]string
	Error    string
}

func (h *Handler) showUsers(w http.ResponseWriter, r *http.Request) {
	data := h.loadUsersPage(w, r, usersPageData{Form: userForm{Role: shared.RoleManager}, Errors: map[string]string{}})
	if data == nil {
		return
	}
	h.render(w, r, "pages/admin/users.html", "User Management", *data)
}

func (h *Handler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()

	form := userForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
		BranchID: r.PostFormValue("branch_id"),
	}
	formErrors := map[string]string{}
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldErr := range fieldErrors {
				formErrors[fieldErr.Field()] = userFieldMessage(fieldErr)
			}
		}
	}

	// Non-admin accounts are scoped to a branch; admin accounts are not.
	var branchID *int64
	if form.Role != shared.RoleAdmin {
		id, err := strconv.ParseInt(form.BranchID, 10, 64)
		if err != nil || id == 0 {
			formErrors["BranchID"] = "Please select a branch for this role"
		} else {
			branchID = &id
		}
	}

	if len(formErrors) == 0 {
		err := h.client.RegisterUser(r.Context(), api.RegisterUserInput{
			Username: form.Username,
			Password: form.Password,
			Role:     form.Role,
			BranchID: branchID,
			OrgID:    acct.OrgID,
		})
		if err != nil {
			if h.expireOn(w, r, err) {
				return
			}
			h.logger.Error("register user", slog.Any("error", err))
			formErrors["general"] = api.UserMessage(err, "Failed to register user")
		} else {
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: fmt.Sprintf("%s registered successfully", form.Role)})
			http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
			return
		}
	}

	data := h.loadUsersPage(w, r, usersPageData{Form: form, Errors: formErrors})
	if data == nil {
		return
	}
	w.WriteHeader(http.StatusBadRequest)
	h.render(w, r, "pages/admin/users.html", "User Management", *data)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.client.DeleteUser(r.Context(), userID, acct.OrgID); err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		h.logger.Error("delete user", slog.Int64("user_id", userID), slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: api.UserMessage(err, "Failed to delete user")})
	} else {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "User deleted successfully"})
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (h *Handler) loadUsersPage(w http.ResponseWriter, r *http.Request, data usersPageData) *usersPageData {
	acct := shared.AccountFromContext(r.Context())
	if acct == nil || acct.OrgID == 0 {
		return &data
	}
	data.HasScope = true
	users, err := h.client.OrgUsers(r.Context(), acct.OrgID)
	if err != nil {
		if h.expireOn(w, r, err) {
			return nil
		}
		h.logger.Error("load users", slog.Any("error", err))
		data.Error = api.UserMessage(err, "Failed to load users")
	} else {
		data.Users = users
	}
	if branches, err := h.client.Branches(r.Context(), acct.OrgID); err == nil {
		data.Branches = branches
	}
	return &data
}

func (h *Handler) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()
	if acct == nil || acct.OrgID == 0 {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	summary, err := h.client.SalesSummary(r.Context(), acct.OrgID)
	if err != nil {
		if h.expireOn(w, r, err) {
			return
		}
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: api.UserMessage(err, "Failed to load sales data")})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	topProducts, err := h.client.TopProducts(r.Context(), acct.OrgID)
	if err != nil && !errors.Is(err, api.ErrUnauthorized) {
		h.logger.Warn("load top products for report", slog.Any("error", err))
	}

	html, err := h.builder.OrgSalesHTML(reports.OrgReportData{
		OrgName:     acct.OrgName,
		GeneratedAt: time.Now(),
		Summary:     summary,
		TopProducts: topProducts,
	})
	if err != nil {
		if errors.Is(err, reports.ErrNoSalesData) {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "No sales data available to generate report"})
		} else {
			h.logger.Error("build org report", slog.Any("error", err))
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Failed to generate report"})
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	pdf, err := h.renderer.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render org report", slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Report rendering is unavailable right now"})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+reports.Filename(acct.OrgName, time.Now()))
	_, _ = w.Write(pdf)
}

func (h *Handler) handleReportQueue(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	acct := sess.Account()
	if h.queue == nil {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Background reports are not configured"})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	task, err := jobs.NewOrgSalesReportTask(jobs.OrgSalesReportPayload{OrgID: acct.OrgID, OrgName: acct.OrgName})
	if err == nil {
		_, err = h.queue.EnqueueContext(r.Context(), task, asynq.Queue(jobs.QueueDefault))
	}
	if err != nil {
		h.logger.Error("enqueue report job", slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Failed to queue report generation"})
	} else {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Report generation queued"})
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
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
		h.logger.Error("render admin page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func userFieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Field() {
	case "Username":
		return "Username must be at least 3 characters"
	case "Password":
		return "Password must be at least 6 characters"
	case "Role":
		return "Please choose a valid role"
	}
	return "Invalid value"
}
