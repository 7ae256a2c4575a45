package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

var _ port.ContentSource = (*Client)(nil)

const (
	categoryProjection = `{_id, title, slug, description, categoryType, image, order}`

	productTypeProjection = `{_id, title, slug, description}`

	productProjection = `{
  _id, _createdAt, name, slug, description, price, featured, inStock,
  images, dimensions, materials,
  "category": category->{_id, title, slug, categoryType},
  "productType": productType->{_id, title, slug}
}`

	blogPostProjection = `{
  _id, title, slug, excerpt, body, author, featured, tags, mainImage, publishedAt,
  "category": category->{_id, title, slug}
}`

	queryProducts = `*[_type == "product"
  && (!defined($category) || category->slug.current == $category)
  && (!defined($categoryType) || category->categoryType == $categoryType)
] | order(_createdAt desc) ` + productProjection

	queryProduct = `*[_type == "product" && slug.current == $slug][0] ` + productProjection

	queryCategories = `*[_type == "productCategory"] | order(order asc, title asc) ` +
		categoryProjection

	queryProductTypes = `*[_type == "productType"] | order(title asc) ` + productTypeProjection

	queryBlogPosts = `*[_type == "blogPost"
  && (!defined($category) || category->slug.current == $category)
] | order(publishedAt desc) ` + blogPostProjection

	queryBlogPost = `*[_type == "blogPost" && slug.current == $slug][0] ` + blogPostProjection

	queryBlogCategories = `*[_type == "blogCategory"] | order(title asc) {_id, title, slug, description}`

	queryTestimonials = `*[_type == "testimonial"] | order(_createdAt desc) {
  _id, author, location, quote, rating, featured
}`

	queryConfigurator = `{
  "models": *[_type == "tableModel"] | order(basePrice asc) {
    _id, name, slug, basePrice, customSizeSurchargePercent, allowsCustomSize
  },
  "materials": *[_type == "tableMaterial"] | order(multiplier asc) {_id, name, multiplier},
  "sizes": *[_type == "tableSize"] | order(multiplier asc) {_id, name, multiplier, dimensions},
  "qualities": *[_type == "tableQuality"] | order(multiplier asc) {_id, name, multiplier},
  "options": *[_type == "tableOption"] | order(price asc) {_id, name, price}
}`
)

// A Client reads published content with GROQ queries. Server-side
// filtering is part of the query; nothing is cached or retried.
type Client struct {
	cl       *http.Client
	endpoint string
	token    string
}

func NewClient(cfg Config, opts ...Opt) (*Client, error) {
	const op = "NewClient"

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	o, err := applyOpts(cfg, cfg.UseCDN, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		cl:       o.client,
		endpoint: endpoint(o, cfg, "query"),
		token:    cfg.Token,
	}, nil
}

func (c *Client) Products(
	ctx context.Context, q port.ProductQuery,
) ([]domain.Product, error) {
	const op = "Client.Products"

	var rs []productRecord
	err := c.query(ctx, queryProducts, params{
		"category":     optional(q.CategorySlug),
		"categoryType": optional(string(q.CategoryType)),
	}, &rs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.Product, 0, len(rs))
	for _, r := range rs {
		vs = append(vs, r.domain())
	}
	return vs, nil
}

func (c *Client) Product(ctx context.Context, slug string) (domain.Product, error) {
	const op = "Client.Product"

	var r *productRecord
	if err := c.query(ctx, queryProduct, params{"slug": slug}, &r); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if r == nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, port.ErrNotFound)
	}
	return r.domain(), nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "Client.Categories"

	var rs []categoryRecord
	if err := c.query(ctx, queryCategories, nil, &rs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.Category, 0, len(rs))
	for _, r := range rs {
		vs = append(vs, r.domain())
	}
	return vs, nil
}

func (c *Client) ProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	const op = "Client.ProductTypes"

	var rs []productTypeRecord
	if err := c.query(ctx, queryProductTypes, nil, &rs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.ProductType, 0, len(rs))
	for _, r := range rs {
		vs = append(vs, r.domain())
	}
	return vs, nil
}

func (c *Client) BlogPosts(
	ctx context.Context, q port.BlogPostQuery,
) ([]domain.BlogPost, error) {
	const op = "Client.BlogPosts"

	var rs []blogPostRecord
	err := c.query(ctx, queryBlogPosts, params{
		"category": optional(q.CategorySlug),
	}, &rs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.BlogPost, 0, len(rs))
	for _, r := range rs {
		vs = append(vs, r.domain())
	}
	return vs, nil
}

func (c *Client) BlogPost(ctx context.Context, slug string) (domain.BlogPost, error) {
	const op = "Client.BlogPost"

	var r *blogPostRecord
	if err := c.query(ctx, queryBlogPost, params{"slug": slug}, &r); err != nil {
		return domain.BlogPost{}, fmt.Errorf("%s: %w", op, err)
	}
	if r == nil {
		return domain.BlogPost{}, fmt.Errorf("%s: %w", op, port.ErrNotFound)
	}
	return r.domain(), nil
}

func (c *Client) BlogCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	const op = "Client.BlogCategories"

	var rs []blogCategoryRecord
	if err := c.query(ctx, queryBlogCategories, nil, &rs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.BlogCategory, 0, len(rs))
	for _, r := range rs {
		vs = append(vs, r.domain())
	}
	return vs, nil
}

func (c *Client) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	const op = "Client.Testimonials"

	var rs []testimonialRecord
	if err := c.query(ctx, queryTestimonials, nil, &rs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.Testimonial, 0, len(rs))
	for _, r := range rs {
		vs = append(vs, r.domain())
	}
	return vs, nil
}

func (c *Client) Configurator(ctx context.Context) (domain.Configurator, error) {
	const op = "Client.Configurator"

	var r configuratorRecord
	if err := c.query(ctx, queryConfigurator, nil, &r); err != nil {
		return domain.Configurator{}, fmt.Errorf("%s: %w", op, err)
	}
	return r.domain(), nil
}

// params are GROQ query parameters. A nil value is sent as JSON null, so
// defined($name) is false for it.
type params map[string]any

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// query runs a GROQ query and decodes its result into dst. A null result
// leaves dst untouched.
func (c *Client) query(
	ctx context.Context, groq string, ps params, dst any,
) error {
	const op = "query"

	values := url.Values{"query": {groq}}
	for name, v := range ps {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%s: param %q: %w", op, name, err)
		}
		values.Set("$"+name, string(b))
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.endpoint+"?"+values.Encode(), nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.cl.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var body queryResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	result := bytes.TrimSpace(body.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(result, dst); err != nil {
		return fmt.Errorf("%s: decode result: %w", op, err)
	}
	return nil
}
