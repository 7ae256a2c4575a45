package content

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/niksmo/furnistore/internal/core/domain"
)

// A slugField decodes both a raw document slug ({"current": "oak"}) and a
// projected one ("oak").
type slugField string

func (s *slugField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		var v *string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if v != nil {
			*s = slugField(*v)
		}
		return nil
	}
	var v struct {
		Current string `json:"current"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = slugField(v.Current)
	return nil
}

// Records decode query projections and raw documents alike. In a raw
// document a reference carries only Ref; a projection dereferences it.

type imageRecord struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

func (r *imageRecord) domain() domain.Image {
	if r == nil {
		return domain.Image{}
	}
	return domain.Image{URL: r.URL, Alt: r.Alt}
}

type dimensionsRecord struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

func (r *dimensionsRecord) domain() domain.Dimensions {
	if r == nil {
		return domain.Dimensions{}
	}
	return domain.Dimensions{Width: r.Width, Depth: r.Depth, Height: r.Height}
}

type categoryRecord struct {
	Ref          string       `json:"_ref"`
	ID           string       `json:"_id"`
	Title        string       `json:"title"`
	Slug         slugField    `json:"slug"`
	Description  string       `json:"description"`
	CategoryType string       `json:"categoryType"`
	Image        *imageRecord `json:"image"`
	Order        int          `json:"order"`
}

func (r categoryRecord) domain() domain.Category {
	return domain.Category{
		ID:           r.ID,
		Title:        r.Title,
		Slug:         string(r.Slug),
		Description:  r.Description,
		CategoryType: domain.CategoryType(r.CategoryType),
		Image:        r.Image.domain(),
		Order:        r.Order,
	}
}

type productTypeRecord struct {
	Ref         string    `json:"_ref"`
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        slugField `json:"slug"`
	Description string    `json:"description"`
}

func (r productTypeRecord) domain() domain.ProductType {
	return domain.ProductType{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        string(r.Slug),
		Description: r.Description,
	}
}

type productRecord struct {
	ID          string             `json:"_id"`
	CreatedAt   string             `json:"_createdAt"`
	Name        string             `json:"name"`
	Slug        slugField          `json:"slug"`
	Description string             `json:"description"`
	Category    *categoryRecord    `json:"category"`
	ProductType *productTypeRecord `json:"productType"`
	Price       *float64           `json:"price"`
	Featured    bool               `json:"featured"`
	InStock     *bool              `json:"inStock"`
	Images      []imageRecord      `json:"images"`
	Dimensions  *dimensionsRecord  `json:"dimensions"`
	Materials   []string           `json:"materials"`
}

// domain maps the record. An absent inStock flag means in stock, the
// initial value the content schema gives new products.
func (r productRecord) domain() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        string(r.Slug),
		Description: r.Description,
		Price:       r.Price,
		Featured:    r.Featured,
		InStock:     r.InStock == nil || *r.InStock,
		Dimensions:  r.Dimensions.domain(),
		Materials:   r.Materials,
		CreatedAt:   parseTime(domain.DocProduct, r.ID, "_createdAt", r.CreatedAt),
	}
	if c := r.Category; c != nil {
		p.Category = domain.CategoryRef{
			ID:           c.ID,
			Title:        c.Title,
			Slug:         string(c.Slug),
			CategoryType: domain.CategoryType(c.CategoryType),
		}
	}
	if t := r.ProductType; t != nil {
		p.Type = domain.ProductTypeRef{ID: t.ID, Title: t.Title, Slug: string(t.Slug)}
	}
	for _, img := range r.Images {
		p.Images = append(p.Images, img.domain())
	}
	return p
}

type blogCategoryRecord struct {
	Ref         string    `json:"_ref"`
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        slugField `json:"slug"`
	Description string    `json:"description"`
}

func (r blogCategoryRecord) domain() domain.BlogCategory {
	return domain.BlogCategory{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        string(r.Slug),
		Description: r.Description,
	}
}

type blogPostRecord struct {
	ID          string              `json:"_id"`
	Title       string              `json:"title"`
	Slug        slugField           `json:"slug"`
	Excerpt     string              `json:"excerpt"`
	Body        string              `json:"body"`
	Author      string              `json:"author"`
	Category    *blogCategoryRecord `json:"category"`
	Featured    bool                `json:"featured"`
	Tags        []string            `json:"tags"`
	MainImage   *imageRecord        `json:"mainImage"`
	PublishedAt string              `json:"publishedAt"`
}

func (r blogPostRecord) domain() domain.BlogPost {
	p := domain.BlogPost{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        string(r.Slug),
		Excerpt:     r.Excerpt,
		Body:        r.Body,
		Author:      r.Author,
		Featured:    r.Featured,
		Tags:        r.Tags,
		MainImage:   r.MainImage.domain(),
		PublishedAt: parseTime(domain.DocBlogPost, r.ID, "publishedAt", r.PublishedAt),
	}
	if c := r.Category; c != nil {
		p.Category = domain.BlogCategoryRef{ID: c.ID, Title: c.Title, Slug: string(c.Slug)}
	}
	return p
}

type testimonialRecord struct {
	ID       string `json:"_id"`
	Author   string `json:"author"`
	Location string `json:"location"`
	Quote    string `json:"quote"`
	Rating   int    `json:"rating"`
	Featured bool   `json:"featured"`
}

func (r testimonialRecord) domain() domain.Testimonial {
	return domain.Testimonial(r)
}

type tableModelRecord struct {
	ID                         string    `json:"_id"`
	Name                       string    `json:"name"`
	Slug                       slugField `json:"slug"`
	BasePrice                  float64   `json:"basePrice"`
	CustomSizeSurchargePercent float64   `json:"customSizeSurchargePercent"`
	AllowsCustomSize           bool      `json:"allowsCustomSize"`
}

func (r tableModelRecord) domain() domain.TableModel {
	return domain.TableModel{
		ID:                         r.ID,
		Name:                       r.Name,
		Slug:                       string(r.Slug),
		BasePrice:                  r.BasePrice,
		CustomSizeSurchargePercent: r.CustomSizeSurchargePercent,
		AllowsCustomSize:           r.AllowsCustomSize,
	}
}

// factorRecord covers materials, sizes and qualities.
type factorRecord struct {
	ID         string            `json:"_id"`
	Name       string            `json:"name"`
	Multiplier float64           `json:"multiplier"`
	Dimensions *dimensionsRecord `json:"dimensions"`
}

type tableOptionRecord struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type configuratorRecord struct {
	Models    []tableModelRecord  `json:"models"`
	Materials []factorRecord      `json:"materials"`
	Sizes     []factorRecord      `json:"sizes"`
	Qualities []factorRecord      `json:"qualities"`
	Options   []tableOptionRecord `json:"options"`
}

func (r configuratorRecord) domain() domain.Configurator {
	c := domain.Configurator{
		Models:    make([]domain.TableModel, 0, len(r.Models)),
		Materials: make([]domain.TableMaterial, 0, len(r.Materials)),
		Sizes:     make([]domain.TableSize, 0, len(r.Sizes)),
		Qualities: make([]domain.TableQuality, 0, len(r.Qualities)),
		Options:   make([]domain.TableOption, 0, len(r.Options)),
	}
	for _, v := range r.Models {
		c.Models = append(c.Models, v.domain())
	}
	for _, v := range r.Materials {
		c.Materials = append(c.Materials, domain.TableMaterial{
			ID: v.ID, Name: v.Name, Multiplier: v.Multiplier,
		})
	}
	for _, v := range r.Sizes {
		c.Sizes = append(c.Sizes, domain.TableSize{
			ID: v.ID, Name: v.Name, Multiplier: v.Multiplier,
			Dimensions: v.Dimensions.domain(),
		})
	}
	for _, v := range r.Qualities {
		c.Qualities = append(c.Qualities, domain.TableQuality{
			ID: v.ID, Name: v.Name, Multiplier: v.Multiplier,
		})
	}
	for _, v := range r.Options {
		c.Options = append(c.Options, domain.TableOption(v))
	}
	return c
}

var timeLayouts = []string{time.RFC3339Nano, time.DateOnly}

// parseTime returns nil for an empty or unparsable timestamp. An
// unparsable one is logged as a data-quality warning.
func parseTime(docType, id, field, s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	slog.Warn("unparsable timestamp in content document",
		"docType", docType, "id", id, "field", field, "value", s,
	)
	return nil
}
