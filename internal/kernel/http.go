// Package kernel assembles the HTTP application: middleware stack,
// route table, service pages, and audit listeners.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/supermart/app/controllers"
	"github.com/shashiranjanraj/supermart/app/repositories"
	"github.com/shashiranjanraj/supermart/app/routes"
	"github.com/shashiranjanraj/supermart/app/services"
	"github.com/shashiranjanraj/supermart/pkg/event"
	"github.com/shashiranjanraj/supermart/pkg/logger"
	"github.com/shashiranjanraj/supermart/pkg/metrics"
	"github.com/shashiranjanraj/supermart/pkg/middleware"
	"github.com/shashiranjanraj/supermart/pkg/reqid"
	"github.com/shashiranjanraj/supermart/pkg/response"
	"github.com/shashiranjanraj/supermart/pkg/router"
	"github.com/shashiranjanraj/supermart/pkg/session"
)

// Repos holds the store implementations the kernel wires into
// controllers. Tests pass the in-memory set.
type Repos struct {
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository
	Users      repositories.UserRepository
}

// Build assembles the full application router.
func Build(repos Repos, github *services.GithubClient) *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
	)

	c := routes.Controllers{
		Products:   controllers.NewProductController(repos.Products),
		Categories: controllers.NewCategoryController(repos.Categories),
		Auth:       controllers.NewAuthController(github, services.NewAuthService(repos.Users)),
	}
	routes.Register(r, c)

	r.Get("/", "landing", landing)
	r.Get("/docs", "docs", docs(r))
	r.HandleFunc("/metrics", metrics.Handler())

	registerAuditListeners()

	return r
}

func landing(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"name":    "Supermart API (CRUD Operations)",
		"docs":    "/docs",
		"metrics": "/metrics",
	})
}

// docs serves the named route table, the closest thing this service has
// to generated API docs. The OAuth success redirect points here.
func docs(r *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]interface{}{
			"name":   "Supermart API",
			"routes": r.Routes(),
		})
	}
}

// registerAuditListeners writes resource mutations to the structured log.
func registerAuditListeners() {
	for _, name := range []string{
		"product.created", "product.updated", "product.deleted",
		"category.created", "category.updated", "category.deleted",
		"user.logged_in", "user.logged_out",
	} {
		name := name
		event.Listen(name, func(payload interface{}) {
			logger.Info("audit", "event", name, "payload", payload)
		})
	}
}
