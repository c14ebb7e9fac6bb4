package shared

// Roles recognised by the dashboards. These mirror the role strings the
// inventory API returns at login.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Account identifies the logged-in user. It is the single source of truth
// for "who is logged in" and lives in the session for its whole lifecycle.
type Account struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	BranchID int64  `json:"branch_id"`
	OrgID    int64  `json:"org_id"`
	OrgName  string `json:"org_name"`
}

// DashboardPath returns the home path for the account's role.
func (a *Account) DashboardPath() string {
	if a == nil {
		return "/"
	}
	switch a.Role {
	case RoleAdmin:
		return "/admin"
	case RoleManager:
		return "/manager"
	case RoleStaff:
		return "/staff"
	}
	return "/"
}

// HasBranchScope reports whether branch-scoped fetches can be issued.
// Absence of either identifier is a "nothing to show" state, not an error.
func (a *Account) HasBranchScope() bool {
	return a != nil && a.BranchID != 0 && a.OrgID != 0
}
