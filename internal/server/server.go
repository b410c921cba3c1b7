// Package server contains the dashboard web server.
//
// Every browser session owns a dashboard. Requests of a session are served one at a time,
// the authenticated ones are persisted in the session store so they survive restarts.
package server

import (
	"embed"
	"html/template"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"

	"github.com/ugsbrasil/sharetrack/internal/dashboard"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
	"github.com/ugsbrasil/sharetrack/internal/health"
	mm "github.com/ugsbrasil/sharetrack/internal/middleware"
	"github.com/ugsbrasil/sharetrack/internal/session"
	"github.com/ugsbrasil/sharetrack/internal/view"
)

var log = logrus.WithField("package", "server")

const (
	maxBodySize   = 64 << 10
	healthTimeout = 5 * time.Second
	purgeInterval = time.Minute
)

//go:embed templates/*.html
var templates embed.FS

// nolint:gochecknoglobals
var indexTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"csrfField": func() template.HTML { return "" },
	"roleLabel": view.RoleLabel,
}).ParseFS(templates, "templates/index.html"))

// Config ...
type Config struct {
	// Timeout limits a request processing time.
	Timeout time.Duration
	// SessionTTL is an idle time after which a session expires.
	SessionTTL time.Duration
	// CSRFKey is a 32 bytes key for CSRF tokens. Empty key disables CSRF protection.
	CSRFKey []byte
	// SecureCookies marks cookies as https only.
	SecureCookies bool
	// Dashboard is options of every created dashboard.
	Dashboard []dashboard.Option
}

type server struct {
	g       gateway.Gateway
	store   session.Store
	actions dashboard.Actions

	ttl    time.Duration
	secure bool
	opts   []dashboard.Option
	now    func() time.Time

	mu        sync.Mutex
	sessions  map[string]*entry
	lastPurge time.Time
}

// SetupRouter setups handlers to chi router.
func SetupRouter(g gateway.Gateway, store session.Store, r chi.Router, c Config) {
	r.Use(
		middleware.RequestID,
		mm.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Timeout(c.Timeout),
		mm.BodyLimiter(maxBodySize),
	)

	srv := &server{
		g:        g,
		store:    store,
		actions:  dashboard.NewActions(),
		ttl:      c.SessionTTL,
		secure:   c.SecureCookies,
		opts:     c.Dashboard,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}

	r.Get("/health", health.Handler(healthTimeout, g, store))

	r.Route("/v1", func(r chi.Router) {
		r.Use(
			cors.AllowAll().Handler,
			mm.Session(c.SecureCookies),
		)

		r.Get("/state", srv.getState)
	})

	r.Group(func(r chi.Router) {
		r.Use(mm.Session(c.SecureCookies))
		if len(c.CSRFKey) > 0 {
			r.Use(csrf.Protect(c.CSRFKey, csrf.Secure(c.SecureCookies), csrf.Path("/")))
		}

		r.Get("/", srv.index)
		r.Post("/login", srv.action("login"))
		r.Post("/logout", srv.action("logout"))
		r.Get("/tabs/{tab}", srv.switchTab)
		r.Post("/actions/{control}", srv.dispatch)
	})
}
