package domain

import "time"

// A CategoryType classifies product categories for navigation and filtering.
type CategoryType string

const (
	CategoryTables    CategoryType = "tables"
	CategoryTableLegs CategoryType = "table-legs"
	CategoryOther     CategoryType = "other"
)

func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTables, CategoryTableLegs, CategoryOther:
		return true
	}
	return false
}

type (
	Product struct {
		ID          string
		Name        string
		Slug        string
		Description string
		Category    CategoryRef
		Type        ProductTypeRef
		Price       *float64 // nil means price on request, EUR
		Featured    bool
		InStock     bool
		Images      []Image
		Dimensions  Dimensions
		Materials   []string
		CreatedAt   *time.Time
	}

	CategoryRef struct {
		ID           string
		Title        string
		Slug         string
		CategoryType CategoryType
	}

	ProductTypeRef struct {
		ID    string
		Title string
		Slug  string
	}

	Image struct {
		URL string
		Alt string
	}

	// Dimensions are in centimetres, zero when unknown.
	Dimensions struct {
		Width  float64
		Depth  float64
		Height float64
	}
)

type (
	Category struct {
		ID           string
		Title        string
		Slug         string
		Description  string
		CategoryType CategoryType
		Image        Image
		Order        int
	}

	ProductType struct {
		ID          string
		Title       string
		Slug        string
		Description string
	}

	Testimonial struct {
		ID       string
		Author   string
		Location string
		Quote    string
		Rating   int
		Featured bool
	}
)

// PriceOrZero is the sort key of a product price.
func (p Product) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
