package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niksmo/furnistore/internal/adapter/cartstorage"
	"github.com/niksmo/furnistore/internal/adapter/httphandler"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/niksmo/furnistore/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeContent struct {
	products []domain.Product
	posts    []domain.BlogPost
	cfg      domain.Configurator
	err      error
}

var _ port.ContentSource = fakeContent{}

func (c fakeContent) Products(
	ctx context.Context, q port.ProductQuery,
) ([]domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	var vs []domain.Product
	for _, p := range c.products {
		if q.CategorySlug != "" && p.Category.Slug != q.CategorySlug {
			continue
		}
		if q.CategoryType != "" && p.Category.CategoryType != q.CategoryType {
			continue
		}
		vs = append(vs, p)
	}
	return vs, nil
}

func (c fakeContent) Product(ctx context.Context, slug string) (domain.Product, error) {
	if c.err != nil {
		return domain.Product{}, c.err
	}
	for _, p := range c.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Product{}, port.ErrNotFound
}

func (c fakeContent) Categories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: "c1", Title: "Tables", Slug: "tables", CategoryType: domain.CategoryTables}}, c.err
}

func (c fakeContent) ProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	return []domain.ProductType{}, c.err
}

func (c fakeContent) BlogPosts(
	ctx context.Context, q port.BlogPostQuery,
) ([]domain.BlogPost, error) {
	return c.posts, c.err
}

func (c fakeContent) BlogPost(ctx context.Context, slug string) (domain.BlogPost, error) {
	for _, p := range c.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.BlogPost{}, port.ErrNotFound
}

func (c fakeContent) BlogCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	return []domain.BlogCategory{}, c.err
}

func (c fakeContent) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	return []domain.Testimonial{
		{ID: "t1", Author: "Ana", Quote: "Sturdy", Rating: 5, Featured: true},
		{ID: "t2", Author: "Ben", Quote: "Fine", Rating: 4},
	}, c.err
}

func (c fakeContent) Configurator(ctx context.Context) (domain.Configurator, error) {
	return c.cfg, c.err
}

func ptr[T any](v T) *T {
	return &v
}

func date(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func storeContent() fakeContent {
	tables := domain.CategoryRef{ID: "c1", Title: "Tables", Slug: "tables", CategoryType: domain.CategoryTables}
	legs := domain.CategoryRef{ID: "c2", Title: "Legs", Slug: "legs", CategoryType: domain.CategoryTableLegs}
	return fakeContent{
		products: []domain.Product{
			{ID: "p1", Name: "Oak Table", Slug: "oak-table", Category: tables, Price: ptr(500.0), Featured: true, InStock: true},
			{ID: "p2", Name: "Pine Table", Slug: "pine-table", Category: tables, Price: ptr(300.0), InStock: true},
			{ID: "p3", Name: "Steel Leg", Slug: "steel-leg", Category: legs, Price: ptr(80.0)},
			{ID: "p4", Name: "Bespoke Table", Slug: "bespoke-table", Category: tables},
		},
		posts: []domain.BlogPost{
			{ID: "b1", Title: "Oiling", Slug: "oiling", Tags: []string{"care", "oak"}, PublishedAt: date("2024-02-01"), Featured: true},
			{ID: "b2", Title: "News", Slug: "news", Tags: []string{"news"}, PublishedAt: date("2024-03-01")},
		},
		cfg: domain.Configurator{
			Models:    []domain.TableModel{{ID: "m1", Name: "Nordic", Slug: "nordic", BasePrice: 100, AllowsCustomSize: true, CustomSizeSurchargePercent: 10}},
			Materials: []domain.TableMaterial{{ID: "oak", Name: "Oak", Multiplier: 1.5}},
			Sizes:     []domain.TableSize{{ID: "l", Name: "Large", Multiplier: 1.2}},
			Qualities: []domain.TableQuality{{ID: "std", Name: "Standard", Multiplier: 1}},
			Options:   []domain.TableOption{{ID: "drawer", Name: "Drawer", Price: 30}},
		},
	}
}

func newServer(t *testing.T, content port.ContentSource) (*httptest.Server, *http.Client) {
	t.Helper()

	s := service.New(content, nil, nil, nil)
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, s)
	httphandler.RegisterBlog(mux, s)
	httphandler.RegisterConfigurator(mux, s)
	httphandler.RegisterCart(mux, s, cartstorage.CookieConfig{MaxAge: time.Hour})

	srv := httptest.NewServer(httphandler.WithRequestID(httphandler.AllowJSON(mux)))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func do(
	t *testing.T, cl *http.Client, method, url string, body any, dst any,
) *http.Response {
	t.Helper()

	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := cl.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if dst != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
	}
	return res
}

func TestListProducts(t *testing.T) {
	srv, cl := newServer(t, storeContent())

	t.Run("FilterSortPage", func(t *testing.T) {
		var page httphandler.ProductPage
		res := do(t, cl, http.MethodGet,
			srv.URL+"/v1/products?category_type=tables&sort=price&dir=desc&limit=1", nil, &page)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 3, page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Oak Table", page.Items[0].Name)
		assert.Equal(t, "tables", page.Items[0].Category.CategoryType)
	})

	t.Run("PriceRangeDropsPriceOnRequest", func(t *testing.T) {
		var page httphandler.ProductPage
		do(t, cl, http.MethodGet, srv.URL+"/v1/products?min_price=100&sort=name", nil, &page)
		require.Equal(t, 2, page.Total)
		assert.Equal(t, "Oak Table", page.Items[0].Name)
		assert.Equal(t, "Pine Table", page.Items[1].Name)
	})

	t.Run("BadParams", func(t *testing.T) {
		var e httphandler.ErrorResponse
		res := do(t, cl, http.MethodGet,
			srv.URL+"/v1/products?min_price=cheap&sort=color&limit=0", nil, &e)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Len(t, e.Details, 3)
		assert.False(t, e.Retryable)
	})

	t.Run("NonFinitePrice", func(t *testing.T) {
		for _, q := range []string{
			"max_price=NaN", "min_price=nan&max_price=100", "max_price=Inf", "min_price=-Inf",
		} {
			var e httphandler.ErrorResponse
			res := do(t, cl, http.MethodGet, srv.URL+"/v1/products?"+q, nil, &e)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode, q)
			assert.Len(t, e.Details, 1, q)
		}
	})

	t.Run("Facets", func(t *testing.T) {
		var f httphandler.ProductFacets
		res := do(t, cl, http.MethodGet, srv.URL+"/v1/products/facets?category_type=tables", nil, &f)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, 1, f.PriceOnDemand)
		require.NotNil(t, f.MinPrice)
		assert.Equal(t, 300.0, *f.MinPrice)
	})
}

func TestProductDetail(t *testing.T) {
	srv, cl := newServer(t, storeContent())

	var d httphandler.ProductDetail
	res := do(t, cl, http.MethodGet, srv.URL+"/v1/products/pine-table", nil, &d)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "p2", d.Product.ID)
	require.Len(t, d.Related, 2)
	assert.Equal(t, "oak-table", d.Related[0].Slug)

	var e httphandler.ErrorResponse
	res = do(t, cl, http.MethodGet, srv.URL+"/v1/products/missing", nil, &e)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not found", e.Error)
}

func TestBlogPosts(t *testing.T) {
	srv, cl := newServer(t, storeContent())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"Tags", "?tags=walnut,oak", []string{"Oiling"}},
		{"From", "?from=2024-02-15", []string{"News"}},
		{"ToCoversTheDay", "?to=2024-02-01", []string{"Oiling"}},
		{"LatestFirst", "?sort=publishedAt&dir=desc", []string{"News", "Oiling"}},
		{"Featured", "?featured=true", []string{"Oiling"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var page httphandler.BlogPostPage
			res := do(t, cl, http.MethodGet, srv.URL+"/v1/blog/posts"+tt.query, nil, &page)
			require.Equal(t, http.StatusOK, res.StatusCode)
			var got []string
			for _, p := range page.Items {
				got = append(got, p.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	var post httphandler.BlogPost
	res := do(t, cl, http.MethodGet, srv.URL+"/v1/blog/posts/news", nil, &post)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"news"}, post.Tags)
}

func TestTestimonials(t *testing.T) {
	srv, cl := newServer(t, storeContent())

	var ts []httphandler.Testimonial
	do(t, cl, http.MethodGet, srv.URL+"/v1/testimonials?featured=true", nil, &ts)
	require.Len(t, ts, 1)
	assert.Equal(t, "Ana", ts[0].Author)
}

func TestQuote(t *testing.T) {
	srv, cl := newServer(t, storeContent())

	var cfg httphandler.Configurator
	res := do(t, cl, http.MethodGet, srv.URL+"/v1/configurator", nil, &cfg)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, cfg.Models, 1)

	var q httphandler.TableQuote
	res = do(t, cl, http.MethodPost, srv.URL+"/v1/configurator/quote", httphandler.TableSelection{
		Model: "nordic", Material: "oak", Size: "l", Quality: "std",
		Options: []string{"drawer"},
	}, &q)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "210.00", q.Price)
	require.NotNil(t, q.Components.AdditionalOptions)
	assert.Equal(t, 30.0, *q.Components.AdditionalOptions)

	var e httphandler.ErrorResponse
	res = do(t, cl, http.MethodPost, srv.URL+"/v1/configurator/quote", httphandler.TableSelection{
		Model: "nordic", Material: "gold", Size: "l", Quality: "std",
	}, &e)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, []string{`unknown material "gold"`}, e.Details)
}

func TestCartFlow(t *testing.T) {
	srv, cl := newServer(t, storeContent())
	cartURL := srv.URL + "/v1/cart"

	var s httphandler.CartSummary
	res := do(t, cl, http.MethodPost, cartURL, httphandler.AddToCart{
		Product: "oak-table", Quantity: 2,
	}, &s)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 2, s.ItemCount)
	assert.Equal(t, "1000.00", s.Subtotal)

	res = do(t, cl, http.MethodPost, cartURL, httphandler.AddToCart{
		Table: &httphandler.TableSelection{
			Model: "nordic", Material: "oak", Size: "l", Quality: "std",
			Options: []string{"drawer"},
		},
		Quantity: 1,
	}, &s)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "1210.00", s.Subtotal)

	s = httphandler.CartSummary{}
	do(t, cl, http.MethodGet, cartURL, nil, &s)
	require.Len(t, s.Lines, 2)
	assert.Equal(t, 3, s.ItemCount)

	do(t, cl, http.MethodPatch, cartURL+"/p1", httphandler.UpdateCartLine{Quantity: ptr(1)}, &s)
	assert.Equal(t, "710.00", s.Subtotal)

	do(t, cl, http.MethodDelete, cartURL+"/p1", nil, &s)
	assert.Equal(t, 1, s.ItemCount)
	assert.Equal(t, "210.00", s.Subtotal)

	res = do(t, cl, http.MethodPost, srv.URL+"/v1/checkout", nil, nil)
	assert.Equal(t, http.StatusNotImplemented, res.StatusCode)

	res = do(t, cl, http.MethodDelete, cartURL, nil, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	s = httphandler.CartSummary{}
	do(t, cl, http.MethodGet, cartURL, nil, &s)
	assert.Empty(t, s.Lines)
	assert.Equal(t, "0.00", s.Subtotal)
}

func TestCartRejects(t *testing.T) {
	srv, cl := newServer(t, storeContent())
	cartURL := srv.URL + "/v1/cart"

	tests := []struct {
		name   string
		method string
		url    string
		body   any
		status int
	}{
		{
			"PriceOnRequest", http.MethodPost, cartURL,
			httphandler.AddToCart{Product: "bespoke-table", Quantity: 1},
			http.StatusConflict,
		},
		{
			"UnknownProduct", http.MethodPost, cartURL,
			httphandler.AddToCart{Product: "missing", Quantity: 1},
			http.StatusNotFound,
		},
		{
			"ProductAndTable", http.MethodPost, cartURL,
			httphandler.AddToCart{Product: "oak-table", Table: &httphandler.TableSelection{}, Quantity: 1},
			http.StatusBadRequest,
		},
		{
			"ZeroQuantity", http.MethodPost, cartURL,
			httphandler.AddToCart{Product: "oak-table"},
			http.StatusBadRequest,
		},
		{
			"QuantityOverCap", http.MethodPost, cartURL,
			httphandler.AddToCart{Product: "oak-table", Quantity: 1 << 40},
			http.StatusBadRequest,
		},
		{
			"MissingQuantity", http.MethodPatch, cartURL + "/p1",
			map[string]any{},
			http.StatusBadRequest,
		},
		{
			"UnknownField", http.MethodPatch, cartURL + "/p1",
			map[string]any{"qty": 1},
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, cl, tt.method, tt.url, tt.body, nil)
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(
	ctx context.Context, l domain.ProductListing,
) (domain.ProductPage, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(domain.ProductPage), args.Error(1)
}

func (m *MockCatalog) ProductFacets(
	ctx context.Context, f domain.ProductFilter,
) (domain.ProductFacets, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.ProductFacets), args.Error(1)
}

func (m *MockCatalog) ProductDetail(
	ctx context.Context, slug string,
) (domain.ProductDetail, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.ProductDetail), args.Error(1)
}

func (m *MockCatalog) Categories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCatalog) ProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProductType), args.Error(1)
}

func (m *MockCatalog) Testimonials(
	ctx context.Context, featuredOnly bool,
) ([]domain.Testimonial, error) {
	args := m.Called(ctx, featuredOnly)
	return args.Get(0).([]domain.Testimonial), args.Error(1)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{"NotFound", fmt.Errorf("Service.Categories: %w", port.ErrNotFound), http.StatusNotFound, false},
		{"ContentDown", errors.New("dial tcp: connection refused"), http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &MockCatalog{}
			catalog.On("Categories", mock.Anything).Return([]domain.Category(nil), tt.err)

			mux := http.NewServeMux()
			httphandler.RegisterCatalog(mux, catalog)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
			mux.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			var e httphandler.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
			assert.Equal(t, tt.retryable, e.Retryable)
			assert.NotContains(t, e.Error, "Service.")
			catalog.AssertExpectations(t)
		})
	}
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(httphandler.RequestID(r.Context())))
	})
	h := httphandler.WithRequestID(httphandler.AllowJSON(ok))

	t.Run("GeneratesRequestID", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get(httphandler.RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("KeepsClientRequestID", func(t *testing.T) {
		const id = "0b9a3d3e-6a43-4f0c-9d55-0f5a8a3c9b1e"
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(httphandler.RequestIDHeader, id)
		h.ServeHTTP(w, r)
		assert.Equal(t, id, w.Header().Get(httphandler.RequestIDHeader))
	})

	t.Run("RejectsNonJSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
		r.Header.Set("Content-Type", "text/plain")
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("AcceptsJSONWithCharset", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
