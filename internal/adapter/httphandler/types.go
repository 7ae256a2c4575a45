package httphandler

import (
	"time"

	"github.com/niksmo/furnistore/internal/core/domain"
)

type (
	Product struct {
		ID          string       `json:"id"`
		Name        string       `json:"name"`
		Slug        string       `json:"slug"`
		Description string       `json:"description,omitempty"`
		Category    CategoryRef  `json:"category"`
		Type        *ProductType `json:"product_type,omitempty"`
		Price       *float64     `json:"price"`
		Featured    bool         `json:"featured"`
		InStock     bool         `json:"in_stock"`
		Images      []Image      `json:"images"`
		Dimensions  *Dimensions  `json:"dimensions,omitempty"`
		Materials   []string     `json:"materials"`
		CreatedAt   *time.Time   `json:"created_at,omitempty"`
	}

	CategoryRef struct {
		ID           string `json:"id,omitempty"`
		Title        string `json:"title,omitempty"`
		Slug         string `json:"slug,omitempty"`
		CategoryType string `json:"category_type,omitempty"`
	}

	Image struct {
		URL string `json:"url"`
		Alt string `json:"alt,omitempty"`
	}

	Dimensions struct {
		Width  float64 `json:"width"`
		Depth  float64 `json:"depth"`
		Height float64 `json:"height"`
	}

	ProductPage struct {
		Items []Product `json:"items"`
		Total int       `json:"total"`
	}

	ProductDetail struct {
		Product Product   `json:"product"`
		Related []Product `json:"related"`
	}

	ProductFacets struct {
		MinPrice      *float64        `json:"min_price"`
		MaxPrice      *float64        `json:"max_price"`
		InStock       int             `json:"in_stock"`
		OutOfStock    int             `json:"out_of_stock"`
		PriceOnDemand int             `json:"price_on_demand"`
		Categories    []CategoryCount `json:"categories"`
	}

	CategoryCount struct {
		Slug         string `json:"slug"`
		Title        string `json:"title"`
		CategoryType string `json:"category_type"`
		Count        int    `json:"count"`
	}

	Category struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Slug         string `json:"slug"`
		Description  string `json:"description,omitempty"`
		CategoryType string `json:"category_type"`
		Image        *Image `json:"image,omitempty"`
		Order        int    `json:"order"`
	}

	ProductType struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description,omitempty"`
	}

	Testimonial struct {
		ID       string `json:"id"`
		Author   string `json:"author"`
		Location string `json:"location,omitempty"`
		Quote    string `json:"quote"`
		Rating   int    `json:"rating"`
		Featured bool   `json:"featured"`
	}
)

type (
	BlogPost struct {
		ID          string        `json:"id"`
		Title       string        `json:"title"`
		Slug        string        `json:"slug"`
		Excerpt     string        `json:"excerpt,omitempty"`
		Body        string        `json:"body,omitempty"`
		Author      string        `json:"author,omitempty"`
		Category    *BlogCategory `json:"category,omitempty"`
		Featured    bool          `json:"featured"`
		Tags        []string      `json:"tags"`
		MainImage   *Image        `json:"main_image,omitempty"`
		PublishedAt *time.Time    `json:"published_at,omitempty"`
	}

	BlogCategory struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description,omitempty"`
	}

	BlogPostPage struct {
		Items []BlogPost `json:"items"`
		Total int        `json:"total"`
	}
)

type (
	Configurator struct {
		Models    []TableModel  `json:"models"`
		Materials []TableFactor `json:"materials"`
		Sizes     []TableSize   `json:"sizes"`
		Qualities []TableFactor `json:"qualities"`
		Options   []TableOption `json:"options"`
	}

	TableModel struct {
		ID                         string  `json:"id"`
		Name                       string  `json:"name"`
		Slug                       string  `json:"slug"`
		BasePrice                  float64 `json:"base_price"`
		CustomSizeSurchargePercent float64 `json:"custom_size_surcharge_percent"`
		AllowsCustomSize           bool    `json:"allows_custom_size"`
	}

	TableFactor struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Multiplier float64 `json:"multiplier"`
	}

	TableSize struct {
		ID         string      `json:"id"`
		Name       string      `json:"name"`
		Dimensions *Dimensions `json:"dimensions,omitempty"`
		Multiplier float64     `json:"multiplier"`
	}

	TableOption struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	TableSelection struct {
		Model      string   `json:"model"`
		Material   string   `json:"material"`
		Size       string   `json:"size"`
		Quality    string   `json:"quality"`
		CustomSize bool     `json:"custom_size"`
		Options    []string `json:"options"`
	}

	TableQuote struct {
		Model      TableModel      `json:"model"`
		Material   TableFactor     `json:"material"`
		Size       TableSize       `json:"size"`
		Quality    TableFactor     `json:"quality"`
		Options    []TableOption   `json:"options"`
		Components PriceComponents `json:"components"`
		Price      string          `json:"price"`
	}

	PriceComponents struct {
		BasePrice                   float64  `json:"base_price"`
		MaterialMultiplier          float64  `json:"material_multiplier"`
		SizeMultiplier              float64  `json:"size_multiplier"`
		QualityMultiplier           float64  `json:"quality_multiplier"`
		CustomSizeAdjustmentPercent *float64 `json:"custom_size_adjustment_percent,omitempty"`
		AdditionalOptions           *float64 `json:"additional_options,omitempty"`
	}
)

type (
	// An AddToCart request names either a product slug or a table
	// configuration.
	AddToCart struct {
		Product  string          `json:"product"`
		Table    *TableSelection `json:"table"`
		Quantity int             `json:"quantity"`
	}

	UpdateCartLine struct {
		Quantity *int `json:"quantity"`
	}

	CartLine struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		UnitPrice float64 `json:"price"`
		Quantity  int     `json:"quantity"`
		Category  string  `json:"category"`
	}

	CartSummary struct {
		Lines     []CartLine `json:"lines"`
		ItemCount int        `json:"item_count"`
		Subtotal  string     `json:"subtotal"`
	}
)

type ErrorResponse struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	Retryable bool     `json:"retryable,omitempty"`
}

func toProduct(p domain.Product) Product {
	v := Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category: CategoryRef{
			ID:           p.Category.ID,
			Title:        p.Category.Title,
			Slug:         p.Category.Slug,
			CategoryType: string(p.Category.CategoryType),
		},
		Price:      p.Price,
		Featured:   p.Featured,
		InStock:    p.InStock,
		Images:     make([]Image, len(p.Images)),
		Dimensions: toDimensions(p.Dimensions),
		Materials:  nonNil(p.Materials),
		CreatedAt:  p.CreatedAt,
	}
	if p.Type.Slug != "" {
		v.Type = &ProductType{ID: p.Type.ID, Title: p.Type.Title, Slug: p.Type.Slug}
	}
	for i, img := range p.Images {
		v.Images[i] = Image{URL: img.URL, Alt: img.Alt}
	}
	return v
}

func toProducts(ps []domain.Product) []Product {
	vs := make([]Product, len(ps))
	for i, p := range ps {
		vs[i] = toProduct(p)
	}
	return vs
}

func toFacets(f domain.ProductFacets) ProductFacets {
	v := ProductFacets{
		MinPrice:      f.MinPrice,
		MaxPrice:      f.MaxPrice,
		InStock:       f.InStock,
		OutOfStock:    f.OutOfStock,
		PriceOnDemand: f.PriceOnDemand,
		Categories:    make([]CategoryCount, len(f.Categories)),
	}
	for i, c := range f.Categories {
		v.Categories[i] = CategoryCount{
			Slug:         c.Slug,
			Title:        c.Title,
			CategoryType: string(c.CategoryType),
			Count:        c.Count,
		}
	}
	return v
}

func toCategories(cs []domain.Category) []Category {
	vs := make([]Category, len(cs))
	for i, c := range cs {
		vs[i] = Category{
			ID:           c.ID,
			Title:        c.Title,
			Slug:         c.Slug,
			Description:  c.Description,
			CategoryType: string(c.CategoryType),
			Image:        toImage(c.Image),
			Order:        c.Order,
		}
	}
	return vs
}

func toProductTypes(ts []domain.ProductType) []ProductType {
	vs := make([]ProductType, len(ts))
	for i, t := range ts {
		vs[i] = ProductType{
			ID:          t.ID,
			Title:       t.Title,
			Slug:        t.Slug,
			Description: t.Description,
		}
	}
	return vs
}

func toTestimonials(ts []domain.Testimonial) []Testimonial {
	vs := make([]Testimonial, len(ts))
	for i, t := range ts {
		vs[i] = Testimonial{
			ID:       t.ID,
			Author:   t.Author,
			Location: t.Location,
			Quote:    t.Quote,
			Rating:   t.Rating,
			Featured: t.Featured,
		}
	}
	return vs
}

func toBlogPost(p domain.BlogPost) BlogPost {
	v := BlogPost{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Body:        p.Body,
		Author:      p.Author,
		Featured:    p.Featured,
		Tags:        nonNil(p.Tags),
		MainImage:   toImage(p.MainImage),
		PublishedAt: p.PublishedAt,
	}
	if p.Category.Slug != "" {
		v.Category = &BlogCategory{
			ID:    p.Category.ID,
			Title: p.Category.Title,
			Slug:  p.Category.Slug,
		}
	}
	return v
}

func toBlogPosts(ps []domain.BlogPost) []BlogPost {
	vs := make([]BlogPost, len(ps))
	for i, p := range ps {
		vs[i] = toBlogPost(p)
	}
	return vs
}

func toBlogCategories(cs []domain.BlogCategory) []BlogCategory {
	vs := make([]BlogCategory, len(cs))
	for i, c := range cs {
		vs[i] = BlogCategory{
			ID:          c.ID,
			Title:       c.Title,
			Slug:        c.Slug,
			Description: c.Description,
		}
	}
	return vs
}

func toConfigurator(c domain.Configurator) Configurator {
	v := Configurator{
		Models:    make([]TableModel, len(c.Models)),
		Materials: make([]TableFactor, len(c.Materials)),
		Sizes:     make([]TableSize, len(c.Sizes)),
		Qualities: make([]TableFactor, len(c.Qualities)),
		Options:   toTableOptions(c.Options),
	}
	for i, m := range c.Models {
		v.Models[i] = toTableModel(m)
	}
	for i, m := range c.Materials {
		v.Materials[i] = TableFactor{ID: m.ID, Name: m.Name, Multiplier: m.Multiplier}
	}
	for i, s := range c.Sizes {
		v.Sizes[i] = toTableSize(s)
	}
	for i, q := range c.Qualities {
		v.Qualities[i] = TableFactor{ID: q.ID, Name: q.Name, Multiplier: q.Multiplier}
	}
	return v
}

func toTableModel(m domain.TableModel) TableModel {
	return TableModel{
		ID:                         m.ID,
		Name:                       m.Name,
		Slug:                       m.Slug,
		BasePrice:                  m.BasePrice,
		CustomSizeSurchargePercent: m.CustomSizeSurchargePercent,
		AllowsCustomSize:           m.AllowsCustomSize,
	}
}

func toTableSize(s domain.TableSize) TableSize {
	return TableSize{
		ID:         s.ID,
		Name:       s.Name,
		Dimensions: toDimensions(s.Dimensions),
		Multiplier: s.Multiplier,
	}
}

func toTableOptions(opts []domain.TableOption) []TableOption {
	vs := make([]TableOption, len(opts))
	for i, o := range opts {
		vs[i] = TableOption{ID: o.ID, Name: o.Name, Price: o.Price}
	}
	return vs
}

func toQuote(q domain.TableQuote) TableQuote {
	return TableQuote{
		Model:    toTableModel(q.Model),
		Material: TableFactor{ID: q.Material.ID, Name: q.Material.Name, Multiplier: q.Material.Multiplier},
		Size:     toTableSize(q.Size),
		Quality:  TableFactor{ID: q.Quality.ID, Name: q.Quality.Name, Multiplier: q.Quality.Multiplier},
		Options:  toTableOptions(q.Options),
		Components: PriceComponents{
			BasePrice:                   q.Components.BasePrice,
			MaterialMultiplier:          q.Components.MaterialMultiplier,
			SizeMultiplier:              q.Components.SizeMultiplier,
			QualityMultiplier:           q.Components.QualityMultiplier,
			CustomSizeAdjustmentPercent: q.Components.CustomSizeAdjustmentPercent,
			AdditionalOptions:           q.Components.AdditionalOptions,
		},
		Price: q.Price,
	}
}

func (s TableSelection) toDomain() domain.TableSelection {
	return domain.TableSelection{
		ModelSlug:  s.Model,
		MaterialID: s.Material,
		SizeID:     s.Size,
		QualityID:  s.Quality,
		CustomSize: s.CustomSize,
		OptionIDs:  s.Options,
	}
}

func toCartSummary(s domain.CartSummary) CartSummary {
	v := CartSummary{
		Lines:     make([]CartLine, len(s.Lines)),
		ItemCount: s.ItemCount,
		Subtotal:  s.Subtotal,
	}
	for i, l := range s.Lines {
		v.Lines[i] = CartLine{
			ID:        l.ID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Category:  l.Category,
		}
	}
	return v
}

func toImage(img domain.Image) *Image {
	if img.URL == "" {
		return nil
	}
	return &Image{URL: img.URL, Alt: img.Alt}
}

func toDimensions(d domain.Dimensions) *Dimensions {
	if d == (domain.Dimensions{}) {
		return nil
	}
	return &Dimensions{Width: d.Width, Depth: d.Depth, Height: d.Height}
}

func nonNil(vs []string) []string {
	if vs == nil {
		return []string{}
	}
	return vs
}
