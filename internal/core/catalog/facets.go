package catalog

import "github.com/niksmo/furnistore/internal/core/domain"

// Paginate returns the window of items selected by p. It never fails: an
// offset past the end yields an empty slice.
func Paginate[T any](items []T, p domain.Page) []T {
	offset := max(p.Offset, 0)
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit > 0 && offset+p.Limit < end {
		end = offset + p.Limit
	}
	return items[offset:end:end]
}

// ProductFacets summarizes items for the listing filter controls.
// Categories keep the order they are first seen in.
func ProductFacets(items []domain.Product) domain.ProductFacets {
	var f domain.ProductFacets
	index := make(map[string]int)

	for _, p := range items {
		if p.InStock {
			f.InStock++
		} else {
			f.OutOfStock++
		}

		if p.Price == nil {
			f.PriceOnDemand++
		} else {
			price := *p.Price
			if f.MinPrice == nil || price < *f.MinPrice {
				f.MinPrice = &price
			}
			if f.MaxPrice == nil || price > *f.MaxPrice {
				f.MaxPrice = &price
			}
		}

		slug := p.Category.Slug
		if slug == "" {
			continue
		}
		i, ok := index[slug]
		if !ok {
			i = len(f.Categories)
			index[slug] = i
			f.Categories = append(f.Categories, domain.CategoryCount{
				Slug:         slug,
				Title:        p.Category.Title,
				CategoryType: p.Category.CategoryType,
			})
		}
		f.Categories[i].Count++
	}
	return f
}
