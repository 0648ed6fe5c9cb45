// Package routes maps the HTTP surface onto controllers.
package routes

import (
	"time"

	"github.com/shashiranjanraj/supermart/app/controllers"
	"github.com/shashiranjanraj/supermart/pkg/middleware"
	"github.com/shashiranjanraj/supermart/pkg/router"
)

// Controllers bundles everything the route table needs.
type Controllers struct {
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Auth       *controllers.AuthController
}

// Register mounts the API and auth routes. Category routes are open;
// every product route sits behind the auth gate.
func Register(r *router.Router, c Controllers) {
	api := r.Group("/api")

	api.Get("/categories", "categories.index", c.Categories.Index)
	api.Post("/categories", "categories.store", c.Categories.Store)
	api.Put("/categories/{id}", "categories.update", c.Categories.Update)
	api.Delete("/categories/{id}", "categories.destroy", c.Categories.Destroy)

	products := api.Group("/products", middleware.RequireAuth)
	products.Get("/", "products.index", c.Products.Index)
	products.Get("/{id}", "products.show", c.Products.Show)
	products.Post("/", "products.store", c.Products.Store)
	products.Put("/{id}", "products.update", c.Products.Update)
	products.Delete("/{id}", "products.destroy", c.Products.Destroy)

	auth := r.Group("/auth", middleware.RateLimit(30, time.Minute))
	auth.Get("/", "auth.hint", c.Auth.Hint)
	auth.Get("/github", "auth.login", c.Auth.Login)
	auth.Get("/github/callback", "auth.callback", c.Auth.Callback)
	auth.Get("/logout", "auth.logout", c.Auth.Logout, middleware.RequireAuth)
	auth.Post("/token", "auth.token", c.Auth.Token, middleware.RequireAuth)
}
