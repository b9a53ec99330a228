package controllers

import (
	"log/slog"
	"net/http"

	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
)

// ProductController handles product-related requests
type ProductController struct {
	products *services.ProductService
	log      *slog.Logger
}

// NewProductController creates a new ProductController
func NewProductController(products *services.ProductService, log *slog.Logger) *ProductController {
	return &ProductController{products: products, log: log}
}

func productQuery(r *http.Request) models.ProductQuery {
	return models.ProductQuery{PageQuery: pageQuery(r), Category: r.URL.Query().Get("category")}
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.CreateProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	p, err := pc.products.Create(ctx, in)
	if err != nil {
		writeServiceError(w, pc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

// GetProducts retrieves the active catalog
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	page, err := pc.products.FindAllPublished(ctx, productQuery(r))
	if err != nil {
		writeServiceError(w, pc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// GetAllProducts retrieves every product, inactive included (Admin only)
func (pc *ProductController) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	page, err := pc.products.FindAll(ctx, productQuery(r))
	if err != nil {
		writeServiceError(w, pc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	p, err := pc.products.FindOne(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, pc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// UpdateProduct handles updating a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	p, err := pc.products.Update(ctx, mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, pc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := pc.products.Remove(ctx, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, pc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
