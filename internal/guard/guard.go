// Package guard gates access to the role-specific dashboards.
package guard

import (
	"net/http"

	"github.com/inventorypro/inventorypro-web/internal/shared"
)

// RequireRole restricts a route subtree to one role. Unauthenticated
// visitors go to the login screen; authenticated visitors with a different
// role go to their own dashboard.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct := shared.AccountFromContext(r.Context())
			if acct == nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			if role != "" && acct.Role != role {
				http.Redirect(w, r, acct.DashboardPath(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Expire destroys the current session and sends the user to the login
// screen. Handlers call it whenever the upstream API answers 401, no matter
// which screen issued the call.
func Expire(sessions *shared.SessionManager, w http.ResponseWriter, r *http.Request, sess *shared.Session) {
	if sess != nil {
		sessions.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
