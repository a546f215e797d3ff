package auth

import (
	"encoding/json"
	"net/http"

	"github.com/afours/eshipping-launcher/internal/models"
	"github.com/afours/eshipping-launcher/internal/session"
)

const adminPath = "/admin"

// RequireAdmin blocks form routes for sessions that have not passed the
// gate, sending the browser back to the password prompt with a warning.
// It must run inside session.Manager.Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess != nil && sess.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}
		if sess != nil {
			sess.Flash(models.StatusWarning, "관리자 인증이 필요합니다.")
		}
		http.Redirect(w, r, adminPath, http.StatusSeeOther)
	})
}

// RequireAdminJSON is RequireAdmin for the JSON API: it answers 401.
func RequireAdminJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		if sess != nil && sess.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(models.ErrUnauthorized)
	})
}
