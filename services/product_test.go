package services

import (
	"context"
	"testing"

	"go-storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductService_CreateDefaults(t *testing.T) {
	f := newFixture(t)

	p, err := f.products.Create(context.Background(), models.CreateProductInput{
		Name:        "Mug",
		Description: "Holds coffee",
		Price:       9.5,
		Quantity:    3,
	})
	require.NoError(t, err)
	assert.False(t, p.ID.IsZero())
	assert.True(t, p.IsActive)
	assert.NotNil(t, p.Tags)
	assert.Equal(t, fixedNow, p.CreatedAt)

	hidden := false
	p, err = f.products.Create(context.Background(), models.CreateProductInput{
		Name:        "Draft",
		Description: "Not yet",
		IsActive:    &hidden,
	})
	require.NoError(t, err)
	assert.False(t, p.IsActive)
}

func TestProductService_CreateRejectsInvalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.products.Create(context.Background(), models.CreateProductInput{
		Name:        "Broken",
		Description: "negative price",
		Price:       -1,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "CreateProductInput.Price")
}

func TestProductService_PublishedListingHidesInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.products.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, len(seedProducts), n)

	n, err = f.products.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding twice must not duplicate the catalog")

	hidden := false
	_, err = f.products.Create(ctx, models.CreateProductInput{Name: "Secret", Description: "x", IsActive: &hidden})
	require.NoError(t, err)

	published, err := f.products.FindAllPublished(ctx, models.ProductQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, len(seedProducts), published.Pagination.Total)

	all, err := f.products.FindAll(ctx, models.ProductQuery{OnlyActive: true})
	require.NoError(t, err)
	assert.EqualValues(t, len(seedProducts)+1, all.Pagination.Total)
}

func TestProductService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.products.Seed(ctx)
	require.NoError(t, err)

	page, err := f.products.FindAllPublished(ctx, models.ProductQuery{PageQuery: models.PageQuery{Search: "docker"}})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Docker Captain T-Shirt", page.Results[0].Name)

	// tokens are OR'd, so either word matches
	page, err = f.products.FindAllPublished(ctx, models.ProductQuery{PageQuery: models.PageQuery{Search: "docker-binary"}})
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)

	page, err = f.products.FindAllPublished(ctx, models.ProductQuery{PageQuery: models.PageQuery{Limit: 3, Page: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Results, 3)
	assert.Equal(t, 3, page.Pagination.Pages)
	assert.Equal(t, 2, page.Pagination.Page)
}

func TestProductService_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Mug", 9.5)

	price := 12.0
	updated, err := f.products.Update(ctx, p.ID.Hex(), models.UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.Price)
	assert.Equal(t, "Mug", updated.Name)

	_, err = f.products.Update(ctx, primitive.NewObjectID().Hex(), models.UpdateProductInput{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.products.FindOne(ctx, "not-hex")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.products.Remove(ctx, p.ID.Hex()))
	_, err = f.products.FindOne(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
