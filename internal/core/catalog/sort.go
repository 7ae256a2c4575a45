package catalog

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/niksmo/furnistore/internal/core/domain"
)

// SortProducts returns a stably sorted copy of items. An unknown field
// keeps input order.
func SortProducts(items []domain.Product, s domain.ProductSort) []domain.Product {
	out := slices.Clone(items)

	var compare func(a, b domain.Product) int
	switch s.Field {
	case domain.ProductSortName:
		compare = func(a, b domain.Product) int {
			return compareFold(a.Name, b.Name)
		}
	case domain.ProductSortPrice:
		compare = func(a, b domain.Product) int {
			return cmp.Compare(a.PriceOrZero(), b.PriceOrZero())
		}
	case domain.ProductSortFeatured:
		compare = func(a, b domain.Product) int {
			return cmp.Compare(boolKey(a.Featured), boolKey(b.Featured))
		}
	case domain.ProductSortCreatedAt:
		compare = func(a, b domain.Product) int {
			return cmp.Compare(timeKey(a.CreatedAt), timeKey(b.CreatedAt))
		}
	default:
		return out
	}

	slices.SortStableFunc(out, directed(compare, s.Direction))
	return out
}

// SortBlogPosts returns a stably sorted copy of items. An unknown field
// keeps input order.
func SortBlogPosts(items []domain.BlogPost, s domain.BlogPostSort) []domain.BlogPost {
	out := slices.Clone(items)

	var compare func(a, b domain.BlogPost) int
	switch s.Field {
	case domain.BlogPostSortTitle:
		compare = func(a, b domain.BlogPost) int {
			return compareFold(a.Title, b.Title)
		}
	case domain.BlogPostSortPublishedAt:
		compare = func(a, b domain.BlogPost) int {
			return cmp.Compare(timeKey(a.PublishedAt), timeKey(b.PublishedAt))
		}
	case domain.BlogPostSortFeatured:
		compare = func(a, b domain.BlogPost) int {
			return cmp.Compare(boolKey(a.Featured), boolKey(b.Featured))
		}
	default:
		return out
	}

	slices.SortStableFunc(out, directed(compare, s.Direction))
	return out
}

// directed negates compare for descending order. Ties stay ties, so a
// stable sort keeps their input order in both directions.
func directed[T any](compare func(a, b T) int, d domain.SortDirection) func(a, b T) int {
	if d != domain.Desc {
		return compare
	}
	return func(a, b T) int {
		return -compare(a, b)
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func boolKey(v bool) int {
	if v {
		return 1
	}
	return 0
}

// timeKey is the Unix time in milliseconds; a missing time sorts as the
// epoch.
func timeKey(t *time.Time) int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
