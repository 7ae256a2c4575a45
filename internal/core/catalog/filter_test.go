package catalog_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/niksmo/furnistore/internal/core/catalog"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func names(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func titles(ps []domain.BlogPost) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}

func testProducts() []domain.Product {
	tables := domain.CategoryRef{
		ID: "c1", Title: "Dining Tables", Slug: "dining-tables",
		CategoryType: domain.CategoryTables,
	}
	legs := domain.CategoryRef{
		ID: "c2", Title: "Steel Legs", Slug: "steel-legs",
		CategoryType: domain.CategoryTableLegs,
	}
	return []domain.Product{
		{
			ID: "p1", Name: "Oak Table", Description: "Solid wood",
			Category: tables, Type: domain.ProductTypeRef{Title: "Dining"},
			Price: ptr(150.0), Featured: true, InStock: true,
		},
		{
			ID: "p2", Name: "Walnut Table", Category: tables,
			Price: ptr(99.99), InStock: false,
		},
		{
			ID: "p3", Name: "Hairpin Leg", Description: "Black powder coat",
			Category: legs, Price: ptr(200.0), InStock: true,
		},
		{
			ID: "p4", Name: "Bespoke Table", Category: tables,
			Price: nil, Featured: true, InStock: true,
		},
	}
}

func TestFilterProducts(t *testing.T) {
	items := testProducts()

	t.Run("EmptyFilterKeepsAll", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{})
		assert.Equal(t, names(items), names(got))
	})

	t.Run("CategoryType", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{
			CategoryType: domain.CategoryTableLegs,
		})
		assert.Equal(t, []string{"Hairpin Leg"}, names(got))
	})

	t.Run("CategorySlug", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{
			CategorySlug: "dining-tables",
		})
		assert.Equal(t,
			[]string{"Oak Table", "Walnut Table", "Bespoke Table"}, names(got),
		)
	})

	t.Run("PriceRangeBounds", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{
			PriceRange: &domain.PriceRange{Min: ptr(100.0), Max: ptr(200.0)},
		})
		assert.Equal(t, []string{"Oak Table", "Hairpin Leg"}, names(got))
	})

	t.Run("PriceRangeExcludesPriceOnRequest", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{
			PriceRange: &domain.PriceRange{Min: ptr(0.0)},
		})
		assert.NotContains(t, names(got), "Bespoke Table")
		assert.Len(t, got, 3)
	})

	t.Run("EmptyPriceRangeIsInactive", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{
			PriceRange: &domain.PriceRange{},
		})
		assert.Len(t, got, len(items))
	})

	t.Run("FeaturedAndInStock", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{
			Featured: ptr(true),
			InStock:  ptr(true),
		})
		assert.Equal(t, []string{"Oak Table", "Bespoke Table"}, names(got))

		got = catalog.FilterProducts(items, domain.ProductFilter{
			InStock: ptr(false),
		})
		assert.Equal(t, []string{"Walnut Table"}, names(got))
	})

	t.Run("SearchIsCaseInsensitive", func(t *testing.T) {
		for _, q := range []string{"oak", "OAK", " Oak "} {
			got := catalog.FilterProducts(items, domain.ProductFilter{Search: q})
			assert.Equal(t, []string{"Oak Table"}, names(got), q)
		}
	})

	t.Run("SearchCoversDescriptionAndCategory", func(t *testing.T) {
		got := catalog.FilterProducts(items, domain.ProductFilter{Search: "powder"})
		assert.Equal(t, []string{"Hairpin Leg"}, names(got))

		got = catalog.FilterProducts(items, domain.ProductFilter{Search: "steel legs"})
		assert.Equal(t, []string{"Hairpin Leg"}, names(got))

		got = catalog.FilterProducts(items, domain.ProductFilter{Search: "dining"})
		assert.Len(t, got, 3)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		before := testProducts()
		_ = catalog.FilterProducts(items, domain.ProductFilter{Search: "table"})
		assert.Empty(t, cmp.Diff(before, items))
	})
}

func TestFilterProductsProperties(t *testing.T) {
	items := testProducts()
	filters := []domain.ProductFilter{
		{},
		{CategoryType: domain.CategoryTables},
		{Search: "table", Featured: ptr(true)},
		{PriceRange: &domain.PriceRange{Max: ptr(150.0)}},
		{InStock: ptr(true), CategorySlug: "dining-tables"},
	}

	t.Run("Idempotent", func(t *testing.T) {
		for _, f := range filters {
			once := catalog.FilterProducts(items, f)
			twice := catalog.FilterProducts(once, f)
			assert.Empty(t, cmp.Diff(once, twice))
		}
	})

	t.Run("Monotonic", func(t *testing.T) {
		base := domain.ProductFilter{CategoryType: domain.CategoryTables}
		narrowed := []domain.ProductFilter{
			{CategoryType: domain.CategoryTables, Featured: ptr(true)},
			{CategoryType: domain.CategoryTables, InStock: ptr(true)},
			{CategoryType: domain.CategoryTables, Search: "walnut"},
			{
				CategoryType: domain.CategoryTables,
				PriceRange:   &domain.PriceRange{Min: ptr(120.0)},
			},
		}
		baseLen := len(catalog.FilterProducts(items, base))
		for _, f := range narrowed {
			assert.LessOrEqual(t, len(catalog.FilterProducts(items, f)), baseLen)
		}
	})
}

func TestFilterBlogPosts(t *testing.T) {
	day := func(d int) *time.Time {
		v := time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
		return &v
	}
	care := domain.BlogCategoryRef{Title: "Wood Care", Slug: "care"}
	news := domain.BlogCategoryRef{Title: "News", Slug: "news"}

	items := []domain.BlogPost{
		{Title: "Oiling oak", Author: "Mara", Category: care,
			Tags: []string{"oak", "oil"}, PublishedAt: day(1)},
		{Title: "Spring collection", Excerpt: "New walnut pieces",
			Category: news, Featured: true, Tags: []string{"walnut"},
			PublishedAt: day(10)},
		{Title: "Draft notes", Category: news, Tags: nil, PublishedAt: nil},
	}

	t.Run("CategoryAndFeatured", func(t *testing.T) {
		got := catalog.FilterBlogPosts(items, domain.BlogPostFilter{CategorySlug: "news"})
		assert.Equal(t, []string{"Spring collection", "Draft notes"}, titles(got))

		got = catalog.FilterBlogPosts(items, domain.BlogPostFilter{Featured: ptr(false)})
		assert.Equal(t, []string{"Oiling oak", "Draft notes"}, titles(got))
	})

	t.Run("TagsUseOrSemantics", func(t *testing.T) {
		got := catalog.FilterBlogPosts(items, domain.BlogPostFilter{
			Tags: []string{"walnut", "oil"},
		})
		assert.Equal(t, []string{"Oiling oak", "Spring collection"}, titles(got))
	})

	t.Run("DateRangeInclusive", func(t *testing.T) {
		got := catalog.FilterBlogPosts(items, domain.BlogPostFilter{
			DateRange: &domain.DateRange{Start: day(1), End: day(1)},
		})
		assert.Equal(t, []string{"Oiling oak"}, titles(got))
	})

	t.Run("DateRangeExcludesUndated", func(t *testing.T) {
		got := catalog.FilterBlogPosts(items, domain.BlogPostFilter{
			DateRange: &domain.DateRange{End: day(31)},
		})
		require.Len(t, got, 2)
		assert.NotContains(t, titles(got), "Draft notes")
	})

	t.Run("Search", func(t *testing.T) {
		got := catalog.FilterBlogPosts(items, domain.BlogPostFilter{Search: "WALNUT"})
		assert.Equal(t, []string{"Spring collection"}, titles(got))

		got = catalog.FilterBlogPosts(items, domain.BlogPostFilter{Search: "mara"})
		assert.Equal(t, []string{"Oiling oak"}, titles(got))

		got = catalog.FilterBlogPosts(items, domain.BlogPostFilter{Search: "wood care"})
		assert.Equal(t, []string{"Oiling oak"}, titles(got))
	})
}
