package content

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/niksmo/furnistore/internal/core/domain"
)

// A Resolver turns raw documents into storefront entities, resolving
// references against the documents it was built from. Dangling
// references resolve to empty refs.
type Resolver struct {
	categories     map[string]categoryRecord
	productTypes   map[string]productTypeRecord
	blogCategories map[string]blogCategoryRecord
}

// NewResolver indexes the referenced documents among docs: product
// categories, product types and blog categories. Other types are skipped.
func NewResolver(docs []domain.Document) (Resolver, error) {
	const op = "NewResolver"

	r := Resolver{
		categories:     make(map[string]categoryRecord),
		productTypes:   make(map[string]productTypeRecord),
		blogCategories: make(map[string]blogCategoryRecord),
	}

	for _, d := range docs {
		var err error
		switch d.Type {
		case domain.DocCategory:
			var v categoryRecord
			if err = decode(d, &v); err == nil {
				r.categories[d.ID] = v
			}
		case domain.DocProductType:
			var v productTypeRecord
			if err = decode(d, &v); err == nil {
				r.productTypes[d.ID] = v
			}
		case domain.DocBlogCategory:
			var v blogCategoryRecord
			if err = decode(d, &v); err == nil {
				r.blogCategories[d.ID] = v
			}
		}
		if err != nil {
			return Resolver{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return r, nil
}

func (r Resolver) Product(d domain.Document) (domain.Product, error) {
	const op = "Resolver.Product"

	var v productRecord
	if err := decodeTyped(d, domain.DocProduct, &v); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if v.Category != nil {
		c := r.categories[v.Category.Ref]
		v.Category = &c
	}
	if v.ProductType != nil {
		t := r.productTypes[v.ProductType.Ref]
		v.ProductType = &t
	}
	return v.domain(), nil
}

func (r Resolver) BlogPost(d domain.Document) (domain.BlogPost, error) {
	const op = "Resolver.BlogPost"

	var v blogPostRecord
	if err := decodeTyped(d, domain.DocBlogPost, &v); err != nil {
		return domain.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}
	if v.Category != nil {
		c := r.blogCategories[v.Category.Ref]
		v.Category = &c
	}
	return v.domain(), nil
}

// Categories are ordered like the content store lists them: by order,
// then title.
func (r Resolver) Categories() []domain.Category {
	vs := make([]domain.Category, 0, len(r.categories))
	for _, v := range r.categories {
		vs = append(vs, v.domain())
	}
	slices.SortFunc(vs, func(a, b domain.Category) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), strings.Compare(a.Title, b.Title))
	})
	return vs
}

func (r Resolver) ProductTypes() []domain.ProductType {
	vs := make([]domain.ProductType, 0, len(r.productTypes))
	for _, v := range r.productTypes {
		vs = append(vs, v.domain())
	}
	slices.SortFunc(vs, func(a, b domain.ProductType) int {
		return strings.Compare(a.Title, b.Title)
	})
	return vs
}

func (r Resolver) BlogCategories() []domain.BlogCategory {
	vs := make([]domain.BlogCategory, 0, len(r.blogCategories))
	for _, v := range r.blogCategories {
		vs = append(vs, v.domain())
	}
	slices.SortFunc(vs, func(a, b domain.BlogCategory) int {
		return strings.Compare(a.Title, b.Title)
	})
	return vs
}

func DecodeTestimonial(d domain.Document) (domain.Testimonial, error) {
	const op = "DecodeTestimonial"

	var v testimonialRecord
	if err := decodeTyped(d, domain.DocTestimonial, &v); err != nil {
		return domain.Testimonial{}, fmt.Errorf("%s: %w", op, err)
	}
	return v.domain(), nil
}

// DecodeConfigurator groups the table configurator documents among docs.
func DecodeConfigurator(docs []domain.Document) (domain.Configurator, error) {
	const op = "DecodeConfigurator"

	var (
		rec configuratorRecord
		err error
	)
	for _, d := range docs {
		switch d.Type {
		case domain.DocTableModel:
			var v tableModelRecord
			if err = decode(d, &v); err == nil {
				rec.Models = append(rec.Models, v)
			}
		case domain.DocTableMaterial, domain.DocTableSize, domain.DocTableQuality:
			var v factorRecord
			if err = decode(d, &v); err != nil {
				break
			}
			switch d.Type {
			case domain.DocTableMaterial:
				rec.Materials = append(rec.Materials, v)
			case domain.DocTableSize:
				rec.Sizes = append(rec.Sizes, v)
			default:
				rec.Qualities = append(rec.Qualities, v)
			}
		case domain.DocTableOption:
			var v tableOptionRecord
			if err = decode(d, &v); err == nil {
				rec.Options = append(rec.Options, v)
			}
		}
		if err != nil {
			return domain.Configurator{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return rec.domain(), nil
}

func decodeTyped(d domain.Document, docType string, dst any) error {
	if d.Type != docType {
		return fmt.Errorf("%w: %s is %q, want %q", ErrInvalidDocument, d.ID, d.Type, docType)
	}
	return decode(d, dst)
}

// decode unmarshals the body. The document ID wins over the body _id.
func decode(d domain.Document, dst any) error {
	if err := json.Unmarshal(d.Body, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDocument, d.ID, err)
	}
	switch v := dst.(type) {
	case *categoryRecord:
		v.ID = d.ID
	case *productTypeRecord:
		v.ID = d.ID
	case *blogCategoryRecord:
		v.ID = d.ID
	case *productRecord:
		v.ID = d.ID
	case *blogPostRecord:
		v.ID = d.ID
	case *testimonialRecord:
		v.ID = d.ID
	case *tableModelRecord:
		v.ID = d.ID
	case *factorRecord:
		v.ID = d.ID
	case *tableOptionRecord:
		v.ID = d.ID
	}
	return nil
}
