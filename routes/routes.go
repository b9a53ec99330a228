// routes/routes.go
package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"

	"github.com/gorilla/mux"
)

// Route is one entry of the route table. Routes are authenticated unless
// Public is set; OptionalAuth makes a public route read a token when sent.
type Route struct {
	Method       string
	Path         string
	Handler      http.HandlerFunc
	Public       bool
	OptionalAuth bool
	Roles        []models.Role
}

// Controllers groups the handlers the route table points at
type Controllers struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	// Health reports whether backing services are reachable; nil means always healthy
	Health func(ctx context.Context) error
}

// Table lists every route. Literal paths come before {id} patterns of the same prefix.
func Table(c Controllers) []Route {
	admin := []models.Role{models.RoleAdmin}
	customer := []models.Role{models.RoleCustomer}

	return []Route{
		{Method: http.MethodGet, Path: "/healthz", Handler: healthz(c.Health), Public: true},

		// Auth
		{Method: http.MethodPost, Path: "/auth/login", Handler: c.Auth.Login, Public: true},
		{Method: http.MethodPost, Path: "/auth/register", Handler: c.Auth.Register, Public: true},

		// Users
		{Method: http.MethodPost, Path: "/users", Handler: c.Users.CreateUser, Roles: admin},
		{Method: http.MethodGet, Path: "/users", Handler: c.Users.GetUsers, Roles: admin},
		{Method: http.MethodGet, Path: "/users/me", Handler: c.Users.GetProfile},
		{Method: http.MethodGet, Path: "/users/{id}", Handler: c.Users.GetUserByID, Roles: admin},
		{Method: http.MethodPatch, Path: "/users/{id}", Handler: c.Users.UpdateUser, Roles: admin},
		{Method: http.MethodDelete, Path: "/users/{id}", Handler: c.Users.DeleteUser, Roles: admin},

		// Products
		{Method: http.MethodGet, Path: "/products", Handler: c.Products.GetProducts, Public: true},
		{Method: http.MethodPost, Path: "/products", Handler: c.Products.CreateProduct, Roles: admin},
		{Method: http.MethodGet, Path: "/products/all", Handler: c.Products.GetAllProducts, Roles: admin},
		{Method: http.MethodGet, Path: "/products/{id}", Handler: c.Products.GetProductByID, Public: true},
		{Method: http.MethodPatch, Path: "/products/{id}", Handler: c.Products.UpdateProduct, Roles: admin},
		{Method: http.MethodDelete, Path: "/products/{id}", Handler: c.Products.DeleteProduct, Roles: admin},

		// Orders
		{Method: http.MethodGet, Path: "/orders", Handler: c.Orders.GetOrders, Roles: customer},
		{Method: http.MethodPost, Path: "/orders", Handler: c.Orders.CreateOrder, Roles: admin},
		{Method: http.MethodGet, Path: "/orders/all", Handler: c.Orders.GetAllOrders, Roles: admin},
		{Method: http.MethodPost, Path: "/orders/checkout", Handler: c.Orders.Checkout, Public: true, OptionalAuth: true},
		{Method: http.MethodGet, Path: "/orders/{id}", Handler: c.Orders.GetOrderByID, Roles: admin},
		{Method: http.MethodPatch, Path: "/orders/{id}", Handler: c.Orders.UpdateOrder, Roles: admin},
		{Method: http.MethodDelete, Path: "/orders/{id}", Handler: c.Orders.DeleteOrder, Roles: admin},
	}
}

// RegisterRoutes wraps each route with its gate once and mounts it on router
func RegisterRoutes(router *mux.Router, auth *middleware.Authenticator, log *slog.Logger, table []Route) {
	router.Use(middleware.Recover(log), middleware.RequestLogger(log))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "Route not found", nil)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	for _, rt := range table {
		router.Handle(rt.Path, gate(rt, auth)).Methods(rt.Method)
	}
}

func gate(rt Route, auth *middleware.Authenticator) http.Handler {
	var h http.Handler = rt.Handler
	switch {
	case rt.Public && rt.OptionalAuth:
		return auth.Optional(h)
	case rt.Public:
		return h
	case len(rt.Roles) > 0:
		return middleware.Chain(h, auth.Authenticate, middleware.RequireRoles(rt.Roles...))
	default:
		return auth.Authenticate(h)
	}
}

func healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				utils.WriteError(w, http.StatusServiceUnavailable, "Unhealthy", err.Error())
				return
			}
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
