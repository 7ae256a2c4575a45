package service

import (
	"context"
	"fmt"

	"github.com/niksmo/furnistore/internal/core/catalog"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

const relatedLimit = 4

// Service is the storefront core. Content reads go through content; the
// maintenance dependencies (writer, producer, storage) may be nil in
// processes that do not use them.
type Service struct {
	content  port.ContentSource
	writer   port.DocumentsWriter
	producer port.DocumentsProducer
	storage  port.DocumentsStorage
}

func New(
	content port.ContentSource,
	writer port.DocumentsWriter,
	producer port.DocumentsProducer,
	storage port.DocumentsStorage,
) Service {
	return Service{
		content,
		writer,
		producer,
		storage,
	}
}

// ListProducts fetches products narrowed by the category pushed down to the
// content store, then filters, sorts and paginates them in that order.
func (s Service) ListProducts(
	ctx context.Context, l domain.ProductListing,
) (domain.ProductPage, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.content.Products(ctx, port.ProductQuery{
		CategorySlug: l.Filter.CategorySlug,
		CategoryType: l.Filter.CategoryType,
	})
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	filtered := catalog.FilterProducts(items, l.Filter)
	sorted := catalog.SortProducts(filtered, l.Sort)

	return domain.ProductPage{
		Items: catalog.Paginate(sorted, l.Page),
		Total: len(sorted),
	}, nil
}

// ProductFacets summarizes the products of the filter's category
// constraints; the other constraints are ignored so the facet values stay
// selectable.
func (s Service) ProductFacets(
	ctx context.Context, f domain.ProductFilter,
) (domain.ProductFacets, error) {
	const op = "Service.ProductFacets"

	if err := ctx.Err(); err != nil {
		return domain.ProductFacets{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.content.Products(ctx, port.ProductQuery{
		CategorySlug: f.CategorySlug,
		CategoryType: f.CategoryType,
	})
	if err != nil {
		return domain.ProductFacets{}, fmt.Errorf("%s: %w", op, err)
	}

	return catalog.ProductFacets(items), nil
}

// ProductDetail returns a product and up to four products of the same
// category, featured first.
func (s Service) ProductDetail(
	ctx context.Context, slug string,
) (domain.ProductDetail, error) {
	const op = "Service.ProductDetail"

	if err := ctx.Err(); err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.content.Product(ctx, slug)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	related, err := s.related(ctx, p)
	if err != nil {
		return domain.ProductDetail{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.ProductDetail{Product: p, Related: related}, nil
}

func (s Service) related(
	ctx context.Context, p domain.Product,
) ([]domain.Product, error) {
	if p.Category.Slug == "" {
		return []domain.Product{}, nil
	}

	items, err := s.content.Products(ctx, port.ProductQuery{
		CategorySlug: p.Category.Slug,
	})
	if err != nil {
		return nil, err
	}

	others := make([]domain.Product, 0, len(items))
	for _, v := range items {
		if v.ID != p.ID {
			others = append(others, v)
		}
	}

	sorted := catalog.SortProducts(others, domain.ProductSort{
		Field:     domain.ProductSortFeatured,
		Direction: domain.Desc,
	})
	return catalog.Paginate(sorted, domain.Page{Limit: relatedLimit}), nil
}

func (s Service) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "Service.Categories"
	vs, err := s.content.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

func (s Service) ProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	const op = "Service.ProductTypes"
	vs, err := s.content.ProductTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

// ListBlogPosts mirrors ListProducts for blog posts.
func (s Service) ListBlogPosts(
	ctx context.Context, l domain.BlogPostListing,
) (domain.BlogPostPage, error) {
	const op = "Service.ListBlogPosts"

	if err := ctx.Err(); err != nil {
		return domain.BlogPostPage{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.content.BlogPosts(ctx, port.BlogPostQuery{
		CategorySlug: l.Filter.CategorySlug,
	})
	if err != nil {
		return domain.BlogPostPage{}, fmt.Errorf("%s: %w", op, err)
	}

	filtered := catalog.FilterBlogPosts(items, l.Filter)
	sorted := catalog.SortBlogPosts(filtered, l.Sort)

	return domain.BlogPostPage{
		Items: catalog.Paginate(sorted, l.Page),
		Total: len(sorted),
	}, nil
}

func (s Service) BlogPost(ctx context.Context, slug string) (domain.BlogPost, error) {
	const op = "Service.BlogPost"
	v, err := s.content.BlogPost(ctx, slug)
	if err != nil {
		return domain.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s Service) BlogCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	const op = "Service.BlogCategories"
	vs, err := s.content.BlogCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

// Testimonials returns all testimonials, or only featured ones.
func (s Service) Testimonials(
	ctx context.Context, featuredOnly bool,
) ([]domain.Testimonial, error) {
	const op = "Service.Testimonials"

	vs, err := s.content.Testimonials(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !featuredOnly {
		return vs, nil
	}

	out := make([]domain.Testimonial, 0, len(vs))
	for _, v := range vs {
		if v.Featured {
			out = append(out, v)
		}
	}
	return out, nil
}
