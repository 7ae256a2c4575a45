package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/furnistore/internal/adapter/content"
	"github.com/niksmo/furnistore/internal/core/catalog"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

var _ port.ContentSource = (*MirrorSource)(nil)

type documentsLoader interface {
	LoadDocuments(ctx context.Context, docTypes ...string) ([]domain.Document, error)
}

// A MirrorSource serves published content from the PostgreSQL mirror.
// References are resolved in memory on every call. Documents that fail to
// decode are skipped with a warning.
type MirrorSource struct {
	docs documentsLoader
}

func NewMirrorSource(docs documentsLoader) MirrorSource {
	return MirrorSource{docs}
}

func (s MirrorSource) Products(
	ctx context.Context, q port.ProductQuery,
) ([]domain.Product, error) {
	const op = "MirrorSource.Products"

	vs, err := s.products(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]domain.Product, 0, len(vs))
	for _, v := range vs {
		if q.CategorySlug != "" && v.Category.Slug != q.CategorySlug {
			continue
		}
		if q.CategoryType != "" && v.Category.CategoryType != q.CategoryType {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s MirrorSource) Product(ctx context.Context, slug string) (domain.Product, error) {
	const op = "MirrorSource.Product"

	vs, err := s.products(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, v := range vs {
		if v.Slug == slug {
			return v, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%s: %w", op, port.ErrNotFound)
}

// products returns every product, newest first.
func (s MirrorSource) products(ctx context.Context) ([]domain.Product, error) {
	const op = "products"
	log := slog.With("op", op)

	docs, err := s.docs.LoadDocuments(ctx,
		domain.DocProduct, domain.DocCategory, domain.DocProductType,
	)
	if err != nil {
		return nil, err
	}

	r, err := content.NewResolver(docs)
	if err != nil {
		return nil, err
	}

	vs := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		if d.Type != domain.DocProduct {
			continue
		}
		v, err := r.Product(d)
		if err != nil {
			log.Warn("skip broken document", "id", d.ID, "err", err)
			continue
		}
		vs = append(vs, v)
	}

	return catalog.SortProducts(vs, domain.ProductSort{
		Field:     domain.ProductSortCreatedAt,
		Direction: domain.Desc,
	}), nil
}

func (s MirrorSource) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "MirrorSource.Categories"

	r, err := s.resolver(ctx, domain.DocCategory)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.Categories(), nil
}

func (s MirrorSource) ProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	const op = "MirrorSource.ProductTypes"

	r, err := s.resolver(ctx, domain.DocProductType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.ProductTypes(), nil
}

func (s MirrorSource) BlogPosts(
	ctx context.Context, q port.BlogPostQuery,
) ([]domain.BlogPost, error) {
	const op = "MirrorSource.BlogPosts"

	vs, err := s.blogPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if q.CategorySlug == "" {
		return vs, nil
	}

	out := make([]domain.BlogPost, 0, len(vs))
	for _, v := range vs {
		if v.Category.Slug == q.CategorySlug {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s MirrorSource) BlogPost(ctx context.Context, slug string) (domain.BlogPost, error) {
	const op = "MirrorSource.BlogPost"

	vs, err := s.blogPosts(ctx)
	if err != nil {
		return domain.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, v := range vs {
		if v.Slug == slug {
			return v, nil
		}
	}
	return domain.BlogPost{}, fmt.Errorf("%s: %w", op, port.ErrNotFound)
}

// blogPosts returns every post, latest published first.
func (s MirrorSource) blogPosts(ctx context.Context) ([]domain.BlogPost, error) {
	const op = "blogPosts"
	log := slog.With("op", op)

	docs, err := s.docs.LoadDocuments(ctx, domain.DocBlogPost, domain.DocBlogCategory)
	if err != nil {
		return nil, err
	}

	r, err := content.NewResolver(docs)
	if err != nil {
		return nil, err
	}

	vs := make([]domain.BlogPost, 0, len(docs))
	for _, d := range docs {
		if d.Type != domain.DocBlogPost {
			continue
		}
		v, err := r.BlogPost(d)
		if err != nil {
			log.Warn("skip broken document", "id", d.ID, "err", err)
			continue
		}
		vs = append(vs, v)
	}

	return catalog.SortBlogPosts(vs, domain.BlogPostSort{
		Field:     domain.BlogPostSortPublishedAt,
		Direction: domain.Desc,
	}), nil
}

func (s MirrorSource) BlogCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	const op = "MirrorSource.BlogCategories"

	r, err := s.resolver(ctx, domain.DocBlogCategory)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.BlogCategories(), nil
}

func (s MirrorSource) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	const op = "MirrorSource.Testimonials"
	log := slog.With("op", op)

	docs, err := s.docs.LoadDocuments(ctx, domain.DocTestimonial)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.Testimonial, 0, len(docs))
	for _, d := range docs {
		v, err := content.DecodeTestimonial(d)
		if err != nil {
			log.Warn("skip broken document", "id", d.ID, "err", err)
			continue
		}
		vs = append(vs, v)
	}
	return vs, nil
}

func (s MirrorSource) Configurator(ctx context.Context) (domain.Configurator, error) {
	const op = "MirrorSource.Configurator"

	docs, err := s.docs.LoadDocuments(ctx,
		domain.DocTableModel, domain.DocTableMaterial, domain.DocTableSize,
		domain.DocTableQuality, domain.DocTableOption,
	)
	if err != nil {
		return domain.Configurator{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := content.DecodeConfigurator(docs)
	if err != nil {
		return domain.Configurator{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s MirrorSource) resolver(
	ctx context.Context, docTypes ...string,
) (content.Resolver, error) {
	docs, err := s.docs.LoadDocuments(ctx, docTypes...)
	if err != nil {
		return content.Resolver{}, err
	}
	return content.NewResolver(docs)
}
