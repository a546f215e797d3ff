package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/afours/eshipping-launcher/internal/auth"
	"github.com/afours/eshipping-launcher/internal/models"
	"github.com/afours/eshipping-launcher/internal/session"
)

// Options wires the router to its dependencies.
type Options struct {
	Notices  Notices
	Gate     *auth.Gate
	Sessions *session.Manager
	Events   EventBus
	Links    func() []models.Link // read per request; nil means DefaultLinks
	Logo     Logo                 // nil when no logo is installed
	Backups  Backups              // nil disables the backup endpoints
	Hostname string
	Version  string

	// CSRFKey enables form token checks on the admin pages when set (32 bytes).
	CSRFKey []byte
	// SecureCookies marks session and CSRF cookies Secure.
	SecureCookies bool
	// RatePerSecond throttles each client address; 0 disables throttling.
	RatePerSecond float64
	RateBurst     int
}

// NewRouter creates and returns the main HTTP router.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Throttle on the peer address before RealIP trusts forwarded headers.
	if opts.RatePerSecond > 0 {
		r.Use(newClientLimiter(opts.RatePerSecond, opts.RateBurst).middleware)
	}
	r.Use(middleware.RealIP)
	r.Use(middleware.CleanPath)
	r.Use(securityHeaders)

	links := opts.Links
	if links == nil {
		links = models.DefaultLinks
	}
	h := &Handlers{
		notices: opts.Notices,
		gate:    opts.Gate,
		events:  opts.Events,
		links:   links,
		logo:    opts.Logo,
		backups: opts.Backups,
		host:    opts.Hostname,
		version: opts.Version,
	}

	// Public pages and read-only JSON.
	r.Get("/", h.homePage)
	r.Get("/logo.png", h.logoImage)
	r.Get("/api/notices", h.getNotices)
	r.Get("/api/links", h.getLinks)
	r.Get("/api/info", h.getInfo)
	r.Get("/api/subscribe", h.sseEvents)

	// Admin pages: every route carries a session and form token checks.
	r.Route("/admin", func(r chi.Router) {
		r.Use(opts.Sessions.Middleware)
		if len(opts.CSRFKey) > 0 {
			r.Use(csrfMiddleware(opts.CSRFKey, opts.SecureCookies))
		}

		r.Get("/", h.adminPage)
		r.Post("/login", h.adminLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/notices", h.adminAdd)
			r.Post("/notices/{idx}", h.adminStageEdit)
			r.Post("/notices/{idx}/delete", h.adminDelete)
			r.Post("/save", h.adminSave)
			r.Post("/reset", h.adminReset)
		})
	})

	// JSON API behind the same session cookie.
	r.Group(func(r chi.Router) {
		r.Use(opts.Sessions.Middleware)
		r.Post("/api/login", h.apiLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdminJSON)
			r.Post("/api/notices", h.addNotice)
			r.Put("/api/notices", h.replaceNotices)
			r.Post("/api/notices/reset", h.resetNotices)
			r.Patch("/api/notices/{idx}", h.updateNotice)
			r.Delete("/api/notices/{idx}", h.deleteNotice)
			r.Get("/api/backups", h.listBackups)
			r.Post("/api/backups", h.createBackup)
		})
	})

	return r
}
