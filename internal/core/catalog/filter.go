// Package catalog holds the pure sort and filter functions applied to
// content fetched from the content store.
//
// Callers filter before sorting. Nothing here mutates its input or fails:
// an absent constraint is skipped and a missing value is compared through
// a neutral default.
package catalog

import (
	"strings"

	"github.com/niksmo/furnistore/internal/core/domain"
)

// FilterProducts returns the products passing every present constraint of
// f, in input order.
//
// A product without a price fails an active price range.
func FilterProducts(items []domain.Product, f domain.ProductFilter) []domain.Product {
	search := normalizeSearch(f.Search)

	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if matchProduct(p, f, search) {
			out = append(out, p)
		}
	}
	return out
}

func matchProduct(p domain.Product, f domain.ProductFilter, search string) bool {
	if f.CategoryType != "" && p.Category.CategoryType != f.CategoryType {
		return false
	}
	if f.CategorySlug != "" && p.Category.Slug != f.CategorySlug {
		return false
	}
	if f.PriceRange.Active() && !inPriceRange(p.Price, *f.PriceRange) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if search != "" && !containsFold(search,
		p.Name, p.Description, p.Category.Title, p.Type.Title,
	) {
		return false
	}
	return true
}

func inPriceRange(price *float64, r domain.PriceRange) bool {
	if price == nil {
		return false
	}
	if r.Min != nil && *price < *r.Min {
		return false
	}
	if r.Max != nil && *price > *r.Max {
		return false
	}
	return true
}

// FilterBlogPosts returns the posts passing every present constraint of f,
// in input order.
//
// Tags match when the post carries at least one of the listed tags. A post
// without a publish date fails an active date range.
func FilterBlogPosts(items []domain.BlogPost, f domain.BlogPostFilter) []domain.BlogPost {
	search := normalizeSearch(f.Search)

	out := make([]domain.BlogPost, 0, len(items))
	for _, p := range items {
		if matchBlogPost(p, f, search) {
			out = append(out, p)
		}
	}
	return out
}

func matchBlogPost(p domain.BlogPost, f domain.BlogPostFilter, search string) bool {
	if f.CategorySlug != "" && p.Category.Slug != f.CategorySlug {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if len(f.Tags) != 0 && !intersects(p.Tags, f.Tags) {
		return false
	}
	if f.DateRange.Active() && !inDateRange(p, *f.DateRange) {
		return false
	}
	if search != "" && !containsFold(search,
		p.Title, p.Excerpt, p.Author, p.Category.Title,
	) {
		return false
	}
	return true
}

func inDateRange(p domain.BlogPost, r domain.DateRange) bool {
	if p.PublishedAt == nil {
		return false
	}
	t := *p.PublishedAt
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func normalizeSearch(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// containsFold reports whether the lowered needle occurs in the
// concatenation of fields. Empty fields contribute nothing.
func containsFold(needle string, fields ...string) bool {
	var b strings.Builder
	for _, f := range fields {
		if f == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f)
	}
	return strings.Contains(strings.ToLower(b.String()), needle)
}
