package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/niksmo/furnistore/internal/core/domain"
)

var (
	ErrInvalidDocument = errors.New("invalid content document")

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	documentTypes = []string{
		domain.DocProduct,
		domain.DocCategory,
		domain.DocProductType,
		domain.DocBlogPost,
		domain.DocBlogCategory,
		domain.DocTestimonial,
		domain.DocTableModel,
		domain.DocTableMaterial,
		domain.DocTableSize,
		domain.DocTableQuality,
		domain.DocTableOption,
	}
)

type header struct {
	ID        string    `json:"_id"`
	Type      string    `json:"_type"`
	Slug      slugField `json:"slug"`
	UpdatedAt string    `json:"_updatedAt"`
}

// ParseDocument reads the system fields of a raw JSON content document.
// The body is kept as is.
func ParseDocument(b []byte) (domain.Document, error) {
	var h header
	if err := json.Unmarshal(b, &h); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if h.ID == "" || h.Type == "" {
		return domain.Document{}, fmt.Errorf("%w: _id and _type are required", ErrInvalidDocument)
	}

	d := domain.Document{
		ID:        h.ID,
		Type:      h.Type,
		Slug:      string(h.Slug),
		Body:      b,
		UpdatedAt: time.Now().UTC(),
	}
	if t, err := time.Parse(time.RFC3339Nano, h.UpdatedAt); err == nil {
		d.UpdatedAt = t
	}
	return d, nil
}

// ValidateDocument checks d against the content schema rules of its type.
// Every violation is reported; the result wraps ErrInvalidDocument. The
// content platform owns the schema, these rules only guard writes issued
// from this repository.
func ValidateDocument(d domain.Document) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if d.ID == "" {
		add("_id is required")
	}
	if !slices.Contains(documentTypes, d.Type) {
		add("unknown _type %q", d.Type)
	}

	var f fields
	if err := json.Unmarshal(d.Body, &f); err != nil {
		add("body: %w", err)
	}
	if len(errs) != 0 {
		return fmt.Errorf("%w %s: %w", ErrInvalidDocument, d.ID, errors.Join(errs...))
	}

	requireText := func(name, v string) {
		if v == "" {
			add("%s is required", name)
		}
	}
	requireSlug := func() {
		switch {
		case f.Slug == "":
			add("slug is required")
		case !slugPattern.MatchString(string(f.Slug)):
			add("slug %q must be lowercase words joined by hyphens", f.Slug)
		}
	}
	requireRef := func(name string, r *reference) {
		if r == nil || r.Ref == "" {
			add("%s reference is required", name)
		}
	}
	nonNegative := func(name string, v *float64) {
		if v != nil && *v < 0 {
			add("%s must not be negative", name)
		}
	}
	positive := func(name string, v *float64) {
		if v == nil || *v <= 0 {
			add("%s must be greater than zero", name)
		}
	}

	switch d.Type {
	case domain.DocProduct:
		requireText("name", f.Name)
		requireSlug()
		requireRef("category", f.Category)
		nonNegative("price", f.Price)
	case domain.DocCategory:
		requireText("title", f.Title)
		requireSlug()
		if !domain.CategoryType(f.CategoryType).Valid() {
			add("categoryType %q is not one of tables, table-legs, other", f.CategoryType)
		}
	case domain.DocProductType, domain.DocBlogCategory:
		requireText("title", f.Title)
		requireSlug()
	case domain.DocBlogPost:
		requireText("title", f.Title)
		requireSlug()
		if f.PublishedAt != "" {
			if _, err := time.Parse(time.RFC3339Nano, f.PublishedAt); err != nil {
				add("publishedAt %q is not an RFC 3339 timestamp", f.PublishedAt)
			}
		}
	case domain.DocTestimonial:
		requireText("author", f.Author)
		requireText("quote", f.Quote)
		if f.Rating < 1 || f.Rating > 5 {
			add("rating %d is out of 1..5", f.Rating)
		}
	case domain.DocTableModel:
		requireText("name", f.Name)
		requireSlug()
		positive("basePrice", f.BasePrice)
		nonNegative("customSizeSurchargePercent", f.CustomSizeSurchargePercent)
	case domain.DocTableMaterial, domain.DocTableSize, domain.DocTableQuality:
		requireText("name", f.Name)
		positive("multiplier", f.Multiplier)
	case domain.DocTableOption:
		requireText("name", f.Name)
		nonNegative("price", f.Price)
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w %s: %w", ErrInvalidDocument, d.ID, errors.Join(errs...))
	}
	return nil
}

type reference struct {
	Ref string `json:"_ref"`
}

// fields is the union of validated document fields.
type fields struct {
	Name                       string     `json:"name"`
	Title                      string     `json:"title"`
	Slug                       slugField  `json:"slug"`
	Category                   *reference `json:"category"`
	Price                      *float64   `json:"price"`
	CategoryType               string     `json:"categoryType"`
	PublishedAt                string     `json:"publishedAt"`
	Author                     string     `json:"author"`
	Quote                      string     `json:"quote"`
	Rating                     int        `json:"rating"`
	BasePrice                  *float64   `json:"basePrice"`
	CustomSizeSurchargePercent *float64   `json:"customSizeSurchargePercent"`
	Multiplier                 *float64   `json:"multiplier"`
}
