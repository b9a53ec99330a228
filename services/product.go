package services

import (
	"context"
	"fmt"
	"log/slog"

	"go-storefront/models"
)

// ProductService manages the catalog
type ProductService struct {
	products ProductRepository
	log      *slog.Logger
}

func NewProductService(products ProductRepository, log *slog.Logger) *ProductService {
	return &ProductService{products: products, log: log}
}

func (s *ProductService) Create(ctx context.Context, in models.CreateProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		IsActive:    true,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Tags:        in.Tags,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// FindAllPublished lists active products by name
func (s *ProductService) FindAllPublished(ctx context.Context, q models.ProductQuery) (*models.Page[models.Product], error) {
	q.OnlyActive = true
	return s.products.Paginate(ctx, q)
}

// FindAll lists every product, active or not
func (s *ProductService) FindAll(ctx context.Context, q models.ProductQuery) (*models.Page[models.Product], error) {
	q.OnlyActive = false
	return s.products.Paginate(ctx, q)
}

func (s *ProductService) FindOne(ctx context.Context, hexID string) (*models.Product, error) {
	id, err := parseID("id", hexID)
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("Product", id, err)
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, hexID string, in models.UpdateProductInput) (*models.Product, error) {
	id, err := parseID("id", hexID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	p, err := s.products.Update(ctx, id, in)
	if err != nil {
		return nil, notFound("Product", id, err)
	}
	return p, nil
}

func (s *ProductService) Remove(ctx context.Context, hexID string) error {
	id, err := parseID("id", hexID)
	if err != nil {
		return err
	}
	return notFound("Product", id, s.products.Delete(ctx, id))
}
