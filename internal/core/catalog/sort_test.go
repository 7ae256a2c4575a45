package catalog_test

import (
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/niksmo/furnistore/internal/core/catalog"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSortProducts(t *testing.T) {
	t.Run("FeaturedDescKeepsTieOrder", func(t *testing.T) {
		items := []domain.Product{
			{Name: "Z Table", Price: ptr(500.0), Featured: false},
			{Name: "A Table", Price: ptr(300.0), Featured: true},
			{Name: "M Table", Price: ptr(300.0), Featured: true},
		}
		got := catalog.SortProducts(items, domain.ProductSort{
			Field: domain.ProductSortFeatured, Direction: domain.Desc,
		})
		assert.Equal(t, []string{"A Table", "M Table", "Z Table"}, names(got))
	})

	t.Run("NameIsCaseInsensitive", func(t *testing.T) {
		items := []domain.Product{
			{Name: "bench"}, {Name: "Armchair"}, {Name: "Cabinet"},
		}
		got := catalog.SortProducts(items, domain.ProductSort{
			Field: domain.ProductSortName, Direction: domain.Asc,
		})
		assert.Equal(t, []string{"Armchair", "bench", "Cabinet"}, names(got))
	})

	t.Run("MissingPriceSortsAsZero", func(t *testing.T) {
		items := []domain.Product{
			{Name: "a", Price: ptr(10.0)},
			{Name: "b", Price: nil},
			{Name: "c", Price: ptr(0.5)},
		}
		got := catalog.SortProducts(items, domain.ProductSort{
			Field: domain.ProductSortPrice, Direction: domain.Asc,
		})
		assert.Equal(t, []string{"b", "c", "a"}, names(got))
		assert.Nil(t, got[0].Price)
	})

	t.Run("MissingCreatedAtSortsAsEpoch", func(t *testing.T) {
		old := time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)
		items := []domain.Product{
			{Name: "old", CreatedAt: &old},
			{Name: "unknown"},
		}
		got := catalog.SortProducts(items, domain.ProductSort{
			Field: domain.ProductSortCreatedAt, Direction: domain.Asc,
		})
		assert.Equal(t, []string{"unknown", "old"}, names(got))
	})

	t.Run("UnknownFieldKeepsOrder", func(t *testing.T) {
		items := testProducts()
		got := catalog.SortProducts(items, domain.ProductSort{
			Field: "color", Direction: domain.Desc,
		})
		assert.Equal(t, names(items), names(got))
	})

	t.Run("Pure", func(t *testing.T) {
		items := testProducts()
		before := testProducts()
		got := catalog.SortProducts(items, domain.ProductSort{
			Field: domain.ProductSortPrice, Direction: domain.Desc,
		})
		assert.Empty(t, cmp.Diff(before, items))

		got[0].Name = "changed"
		assert.Empty(t, cmp.Diff(before, items))
	})
}

func TestSortProductsProperties(t *testing.T) {
	t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time {
		v := t0.Add(time.Duration(h) * time.Hour)
		return &v
	}

	// distinct keys on every field except featured
	distinct := []domain.Product{
		{Name: "Delta", Price: ptr(40.0), CreatedAt: at(3)},
		{Name: "alpha", Price: ptr(10.0), CreatedAt: at(1)},
		{Name: "Charlie", Price: ptr(30.0), CreatedAt: at(4)},
		{Name: "bravo", Price: ptr(20.0), CreatedAt: at(2)},
	}

	fields := []domain.ProductSortField{
		domain.ProductSortName,
		domain.ProductSortPrice,
		domain.ProductSortCreatedAt,
	}

	t.Run("AscReversedEqualsDesc", func(t *testing.T) {
		for _, f := range fields {
			asc := catalog.SortProducts(distinct, domain.ProductSort{Field: f, Direction: domain.Asc})
			desc := catalog.SortProducts(distinct, domain.ProductSort{Field: f, Direction: domain.Desc})
			slices.Reverse(asc)
			assert.Equal(t, names(desc), names(asc), f)
		}
	})

	t.Run("Stable", func(t *testing.T) {
		ties := []domain.Product{
			{ID: "1", Name: "same", Price: ptr(5.0), CreatedAt: at(1), Featured: true},
			{ID: "2", Name: "SAME", Price: ptr(5.0), CreatedAt: at(1), Featured: true},
			{ID: "3", Name: "Same", Price: ptr(5.0), CreatedAt: at(1), Featured: true},
		}
		all := append(slices.Clone(fields), domain.ProductSortFeatured)
		for _, f := range all {
			for _, d := range []domain.SortDirection{domain.Asc, domain.Desc} {
				got := catalog.SortProducts(ties, domain.ProductSort{Field: f, Direction: d})
				ids := []string{got[0].ID, got[1].ID, got[2].ID}
				assert.Equal(t, []string{"1", "2", "3"}, ids, "%s %s", f, d)
			}
		}
	})
}

func TestSortBlogPosts(t *testing.T) {
	day := func(d int) *time.Time {
		v := time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	items := []domain.BlogPost{
		{Title: "b post", PublishedAt: day(3)},
		{Title: "A post", PublishedAt: day(9), Featured: true},
		{Title: "C post", PublishedAt: nil},
	}

	t.Run("PublishedAtDesc", func(t *testing.T) {
		got := catalog.SortBlogPosts(items, domain.BlogPostSort{
			Field: domain.BlogPostSortPublishedAt, Direction: domain.Desc,
		})
		assert.Equal(t, []string{"A post", "b post", "C post"}, titles(got))
	})

	t.Run("Title", func(t *testing.T) {
		got := catalog.SortBlogPosts(items, domain.BlogPostSort{
			Field: domain.BlogPostSortTitle, Direction: domain.Asc,
		})
		assert.Equal(t, []string{"A post", "b post", "C post"}, titles(got))
	})

	t.Run("FeaturedAsc", func(t *testing.T) {
		got := catalog.SortBlogPosts(items, domain.BlogPostSort{
			Field: domain.BlogPostSortFeatured, Direction: domain.Asc,
		})
		assert.Equal(t, []string{"b post", "C post", "A post"}, titles(got))
	})

	t.Run("UnknownField", func(t *testing.T) {
		got := catalog.SortBlogPosts(items, domain.BlogPostSort{Field: "views"})
		assert.Equal(t, titles(items), titles(got))
	})

	t.Run("Pure", func(t *testing.T) {
		input := slices.Clone(items)
		before := slices.Clone(items)
		got := catalog.SortBlogPosts(input, domain.BlogPostSort{
			Field: domain.BlogPostSortPublishedAt, Direction: domain.Desc,
		})
		assert.Empty(t, cmp.Diff(before, input))

		got[0].Title = "changed"
		assert.Empty(t, cmp.Diff(before, input))
	})
}

func TestSortBlogPostsProperties(t *testing.T) {
	t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time {
		v := t0.Add(time.Duration(h) * time.Hour)
		return &v
	}

	// distinct keys on every field except featured
	distinct := []domain.BlogPost{
		{Title: "Delta", PublishedAt: at(3)},
		{Title: "alpha", PublishedAt: at(1)},
		{Title: "Charlie", PublishedAt: at(4)},
		{Title: "bravo", PublishedAt: at(2)},
	}

	fields := []domain.BlogPostSortField{
		domain.BlogPostSortTitle,
		domain.BlogPostSortPublishedAt,
	}

	t.Run("AscReversedEqualsDesc", func(t *testing.T) {
		for _, f := range fields {
			asc := catalog.SortBlogPosts(distinct, domain.BlogPostSort{Field: f, Direction: domain.Asc})
			desc := catalog.SortBlogPosts(distinct, domain.BlogPostSort{Field: f, Direction: domain.Desc})
			slices.Reverse(asc)
			assert.Equal(t, titles(desc), titles(asc), f)
		}
	})

	t.Run("Stable", func(t *testing.T) {
		ties := []domain.BlogPost{
			{ID: "1", Title: "same", PublishedAt: at(1), Featured: true},
			{ID: "2", Title: "SAME", PublishedAt: at(1), Featured: true},
			{ID: "3", Title: "Same", PublishedAt: at(1), Featured: true},
		}
		all := append(slices.Clone(fields), domain.BlogPostSortFeatured)
		for _, f := range all {
			for _, d := range []domain.SortDirection{domain.Asc, domain.Desc} {
				got := catalog.SortBlogPosts(ties, domain.BlogPostSort{Field: f, Direction: d})
				ids := []string{got[0].ID, got[1].ID, got[2].ID}
				assert.Equal(t, []string{"1", "2", "3"}, ids, "%s %s", f, d)
			}
		}
	})

	t.Run("Pure", func(t *testing.T) {
		before := slices.Clone(distinct)
		for _, f := range fields {
			for _, d := range []domain.SortDirection{domain.Asc, domain.Desc} {
				catalog.SortBlogPosts(distinct, domain.BlogPostSort{Field: f, Direction: d})
				assert.Empty(t, cmp.Diff(before, distinct), "%s %s", f, d)
			}
		}
	})
}

func TestFilterThenSort(t *testing.T) {
	items := testProducts()
	got := catalog.SortProducts(
		catalog.FilterProducts(items, domain.ProductFilter{
			CategoryType: domain.CategoryTables,
			InStock:      ptr(true),
		}),
		domain.ProductSort{Field: domain.ProductSortPrice, Direction: domain.Desc},
	)
	assert.Equal(t, []string{"Oak Table", "Bespoke Table"}, names(got))
}
