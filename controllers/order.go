// controllers/order.go
package controllers

import (
	"log/slog"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
)

// OrderController handles order-related requests
type OrderController struct {
	orders *services.OrderService
	log    *slog.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService, log *slog.Logger) *OrderController {
	return &OrderController{orders: orders, log: log}
}

// Checkout places an order for the token holder, or for a guest keyed by shipping email
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	var in models.CreateOrderInput
	if !decodeJSON(w, r, &in) {
		return
	}

	in.User = ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		in.User = claims.Subject
	}
	oc.create(w, r, in)
}

// CreateOrder places an order on behalf of any user named in the body (Admin only)
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in models.CreateOrderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	oc.create(w, r, in)
}

func (oc *OrderController) create(w http.ResponseWriter, r *http.Request, in models.CreateOrderInput) {
	ctx, cancel := requestContext(r)
	defer cancel()

	order, err := oc.orders.Create(ctx, in)
	if err != nil {
		writeServiceError(w, oc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, order)
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	page, err := oc.orders.FindUserOrders(ctx, claims.Subject, pageQuery(r))
	if err != nil {
		writeServiceError(w, oc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// GetAllOrders lists every order with optional status filters (Admin only)
func (oc *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.OrderQuery{
		PageQuery:     pageQuery(r),
		Status:        models.OrderStatus(q.Get("status")),
		PaymentStatus: models.PaymentStatus(q.Get("paymentStatus")),
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	page, err := oc.orders.FindAll(ctx, query)
	if err != nil {
		writeServiceError(w, oc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	order, err := oc.orders.FindOne(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, oc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// UpdateOrder lets an admin move status and payment status
func (oc *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateOrderInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	order, err := oc.orders.Update(ctx, mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, oc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := oc.orders.Remove(ctx, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, oc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}
