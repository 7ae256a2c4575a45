package port

import (
	"context"
	"errors"

	"github.com/niksmo/furnistore/internal/core/cart"
	"github.com/niksmo/furnistore/internal/core/domain"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidQuote        = errors.New("invalid configurator selection")
	ErrNotPurchasable      = errors.New("product has no price")
	ErrCheckoutUnavailable = errors.New("checkout is not available")
)

// A ProductQuery is the server-side part of a product listing, pushed down
// to the content store. Empty fields select everything.
type ProductQuery struct {
	CategorySlug string
	CategoryType domain.CategoryType
}

type BlogPostQuery struct {
	CategorySlug string
}

// A ContentSource reads published content. Single document lookups return
// ErrNotFound when nothing matches.
type ContentSource interface {
	Products(context.Context, ProductQuery) ([]domain.Product, error)
	Product(ctx context.Context, slug string) (domain.Product, error)
	Categories(context.Context) ([]domain.Category, error)
	ProductTypes(context.Context) ([]domain.ProductType, error)
	BlogPosts(context.Context, BlogPostQuery) ([]domain.BlogPost, error)
	BlogPost(ctx context.Context, slug string) (domain.BlogPost, error)
	BlogCategories(context.Context) ([]domain.BlogCategory, error)
	Testimonials(context.Context) ([]domain.Testimonial, error)
	Configurator(context.Context) (domain.Configurator, error)
}

// A DocumentsWriter creates or patches documents in the content store.
type DocumentsWriter interface {
	CreateOrReplace(context.Context, []domain.Document) error
	Patch(context.Context, []domain.Document) error
}

type DocumentsProducer interface {
	ProduceDocuments(context.Context, []domain.Document) error
}

type DocumentsStorage interface {
	StoreDocuments(context.Context, []domain.Document) error
}

type DocumentsSaver interface {
	SaveDocuments(context.Context, []domain.Document) error
}

type DocumentsSeeder interface {
	SeedDocuments(ctx context.Context, docs []domain.Document, patch bool) error
}

// Catalog serves product listings and the storefront's supporting content.
type Catalog interface {
	ListProducts(context.Context, domain.ProductListing) (domain.ProductPage, error)
	ProductFacets(context.Context, domain.ProductFilter) (domain.ProductFacets, error)
	ProductDetail(ctx context.Context, slug string) (domain.ProductDetail, error)
	Categories(context.Context) ([]domain.Category, error)
	ProductTypes(context.Context) ([]domain.ProductType, error)
	Testimonials(ctx context.Context, featuredOnly bool) ([]domain.Testimonial, error)
}

type Blog interface {
	ListBlogPosts(context.Context, domain.BlogPostListing) (domain.BlogPostPage, error)
	BlogPost(ctx context.Context, slug string) (domain.BlogPost, error)
	BlogCategories(context.Context) ([]domain.BlogCategory, error)
}

type TableConfigurator interface {
	Configurator(context.Context) (domain.Configurator, error)
	QuoteTable(context.Context, domain.TableSelection) (domain.TableQuote, error)
}

// A CartKeeper changes the cart held by c. Every change returns the
// resulting summary.
type CartKeeper interface {
	Cart(ctx context.Context, c cart.Store) (domain.CartSummary, error)
	AddProductToCart(ctx context.Context, c cart.Store, slug string, qty int) (domain.CartSummary, error)
	AddTableToCart(ctx context.Context, c cart.Store, sel domain.TableSelection, qty int) (domain.CartSummary, error)
	UpdateCartLine(ctx context.Context, c cart.Store, id string, qty int) (domain.CartSummary, error)
	RemoveCartLine(ctx context.Context, c cart.Store, id string) (domain.CartSummary, error)
	ClearCart(ctx context.Context, c cart.Store) error
	Checkout(ctx context.Context, c cart.Store) error
}
