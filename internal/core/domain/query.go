package domain

import "time"

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

type ProductSortField string

const (
	ProductSortName      ProductSortField = "name"
	ProductSortPrice     ProductSortField = "price"
	ProductSortFeatured  ProductSortField = "featured"
	ProductSortCreatedAt ProductSortField = "createdAt"
)

type BlogPostSortField string

const (
	BlogPostSortTitle       BlogPostSortField = "title"
	BlogPostSortPublishedAt BlogPostSortField = "publishedAt"
	BlogPostSortFeatured    BlogPostSortField = "featured"
)

type (
	ProductSort struct {
		Field     ProductSortField
		Direction SortDirection
	}

	BlogPostSort struct {
		Field     BlogPostSortField
		Direction SortDirection
	}
)

// A ProductFilter narrows a product list. Every field is optional: a nil
// pointer, nil range or empty string imposes no constraint.
type ProductFilter struct {
	CategoryType CategoryType
	CategorySlug string
	PriceRange   *PriceRange
	Featured     *bool
	InStock      *bool
	Search       string
}

// A PriceRange is inclusive on both bounds.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Active reports whether the range has at least one bound.
func (r *PriceRange) Active() bool {
	return r != nil && (r.Min != nil || r.Max != nil)
}

// A BlogPostFilter narrows a blog post list. Every field is optional.
type BlogPostFilter struct {
	CategorySlug string
	Featured     *bool
	Tags         []string
	DateRange    *DateRange
	Search       string
}

// A DateRange is inclusive on both bounds.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r *DateRange) Active() bool {
	return r != nil && (r.Start != nil || r.End != nil)
}

// A Page bounds a listing. Zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

type ProductFacets struct {
	MinPrice      *float64
	MaxPrice      *float64
	InStock       int
	OutOfStock    int
	PriceOnDemand int
	Categories    []CategoryCount
}

type CategoryCount struct {
	Slug         string
	Title        string
	CategoryType CategoryType
	Count        int
}

type (
	ProductListing struct {
		Filter ProductFilter
		Sort   ProductSort
		Page   Page
	}

	ProductPage struct {
		Items []Product
		Total int
	}

	ProductDetail struct {
		Product Product
		Related []Product
	}

	BlogPostListing struct {
		Filter BlogPostFilter
		Sort   BlogPostSort
		Page   Page
	}

	BlogPostPage struct {
		Items []BlogPost
		Total int
	}
)
