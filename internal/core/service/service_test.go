package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/furnistore/internal/adapter/cartstorage"
	"github.com/niksmo/furnistore/internal/core/cart"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/niksmo/furnistore/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContent struct {
	mock.Mock
}

func (m *MockContent) Products(ctx context.Context, q port.ProductQuery) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	vs, _ := args.Get(0).([]domain.Product)
	return vs, args.Error(1)
}

func (m *MockContent) Product(ctx context.Context, slug string) (domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockContent) Categories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	vs, _ := args.Get(0).([]domain.Category)
	return vs, args.Error(1)
}

func (m *MockContent) ProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	args := m.Called(ctx)
	vs, _ := args.Get(0).([]domain.ProductType)
	return vs, args.Error(1)
}

func (m *MockContent) BlogPosts(ctx context.Context, q port.BlogPostQuery) ([]domain.BlogPost, error) {
	args := m.Called(ctx, q)
	vs, _ := args.Get(0).([]domain.BlogPost)
	return vs, args.Error(1)
}

func (m *MockContent) BlogPost(ctx context.Context, slug string) (domain.BlogPost, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.BlogPost), args.Error(1)
}

func (m *MockContent) BlogCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	args := m.Called(ctx)
	vs, _ := args.Get(0).([]domain.BlogCategory)
	return vs, args.Error(1)
}

func (m *MockContent) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	args := m.Called(ctx)
	vs, _ := args.Get(0).([]domain.Testimonial)
	return vs, args.Error(1)
}

func (m *MockContent) Configurator(ctx context.Context) (domain.Configurator, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Configurator), args.Error(1)
}

func ptr[T any](v T) *T {
	return &v
}

var tables = domain.CategoryRef{
	ID: "cat-tables", Title: "Tables", Slug: "tables",
	CategoryType: domain.CategoryTables,
}

func catalogProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Z Table", Slug: "z", Category: tables, Price: ptr(500.0)},
		{ID: "p2", Name: "A Table", Slug: "a", Category: tables, Price: ptr(300.0), Featured: true},
		{ID: "p3", Name: "M Table", Slug: "m", Category: tables, Price: ptr(300.0), Featured: true},
		{ID: "p4", Name: "Custom Table", Slug: "custom", Category: tables},
	}
}

func TestListProducts(t *testing.T) {
	t.Run("FilterSortPaginate", func(t *testing.T) {
		content := new(MockContent)
		content.On("Products", mock.Anything, port.ProductQuery{
			CategoryType: domain.CategoryTables,
		}).Return(catalogProducts(), nil)

		s := service.New(content, nil, nil, nil)
		page, err := s.ListProducts(t.Context(), domain.ProductListing{
			Filter: domain.ProductFilter{
				CategoryType: domain.CategoryTables,
				PriceRange:   &domain.PriceRange{Max: ptr(400.0)},
			},
			Sort: domain.ProductSort{Field: domain.ProductSortName, Direction: domain.Asc},
			Page: domain.Page{Limit: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "A Table", page.Items[0].Name)
		content.AssertExpectations(t)
	})

	t.Run("ContentError", func(t *testing.T) {
		errTransport := errors.New("connection refused")
		content := new(MockContent)
		content.On("Products", mock.Anything, mock.Anything).Return(nil, errTransport)

		s := service.New(content, nil, nil, nil)
		_, err := s.ListProducts(t.Context(), domain.ProductListing{})
		assert.ErrorIs(t, err, errTransport)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		s := service.New(new(MockContent), nil, nil, nil)
		_, err := s.ListProducts(ctx, domain.ProductListing{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestProductDetail(t *testing.T) {
	content := new(MockContent)
	items := catalogProducts()
	content.On("Product", mock.Anything, "z").Return(items[0], nil)
	content.On("Product", mock.Anything, "nope").Return(domain.Product{}, port.ErrNotFound)
	content.On("Products", mock.Anything, port.ProductQuery{CategorySlug: "tables"}).
		Return(items, nil)

	s := service.New(content, nil, nil, nil)

	d, err := s.ProductDetail(t.Context(), "z")
	require.NoError(t, err)
	assert.Equal(t, "Z Table", d.Product.Name)
	require.Len(t, d.Related, 3)
	assert.Equal(t, "A Table", d.Related[0].Name)
	assert.Equal(t, "M Table", d.Related[1].Name)
	assert.Equal(t, "Custom Table", d.Related[2].Name)

	_, err = s.ProductDetail(t.Context(), "nope")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestListBlogPosts(t *testing.T) {
	care := domain.BlogCategoryRef{Slug: "care"}
	content := new(MockContent)
	content.On("BlogPosts", mock.Anything, port.BlogPostQuery{CategorySlug: "care"}).
		Return([]domain.BlogPost{
			{Title: "Oiling", Category: care, Tags: []string{"oil"}},
			{Title: "Waxing", Category: care, Tags: []string{"wax"}, Featured: true},
			{Title: "Sanding", Category: care, Tags: []string{"sand"}},
		}, nil)

	s := service.New(content, nil, nil, nil)
	page, err := s.ListBlogPosts(t.Context(), domain.BlogPostListing{
		Filter: domain.BlogPostFilter{CategorySlug: "care", Tags: []string{"wax", "oil"}},
		Sort:   domain.BlogPostSort{Field: domain.BlogPostSortFeatured, Direction: domain.Desc},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Waxing", page.Items[0].Title)
	assert.Equal(t, "Oiling", page.Items[1].Title)
}

func TestTestimonials(t *testing.T) {
	content := new(MockContent)
	content.On("Testimonials", mock.Anything).Return([]domain.Testimonial{
		{Author: "Ana", Featured: true}, {Author: "Ben"},
	}, nil)

	s := service.New(content, nil, nil, nil)

	all, err := s.Testimonials(t.Context(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	featured, err := s.Testimonials(t.Context(), true)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "Ana", featured[0].Author)
}

func TestAddProductToCart(t *testing.T) {
	content := new(MockContent)
	items := catalogProducts()
	content.On("Product", mock.Anything, "a").Return(items[1], nil)
	content.On("Product", mock.Anything, "custom").Return(items[3], nil)

	s := service.New(content, nil, nil, nil)
	c := cart.New(cartstorage.NewMemory())

	sum, err := s.AddProductToCart(t.Context(), c, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.ItemCount)
	assert.Equal(t, "600.00", sum.Subtotal)
	assert.Equal(t, "Tables", sum.Lines[0].Category)

	_, err = s.AddProductToCart(t.Context(), c, "custom", 1)
	assert.ErrorIs(t, err, port.ErrNotPurchasable)

	_, err = s.AddProductToCart(t.Context(), c, "a", 0)
	assert.ErrorIs(t, err, cart.ErrInvalidLine)

	err = s.Checkout(t.Context(), c)
	assert.ErrorIs(t, err, port.ErrCheckoutUnavailable)

	sum, err = s.Cart(t.Context(), c)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.ItemCount)
}
