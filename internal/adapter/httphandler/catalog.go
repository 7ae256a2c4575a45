package httphandler

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

// GET v1/products?category_type=&category=&min_price=&max_price=&featured=&in_stock=&q=&sort=&dir=&limit=&offset=
// GET v1/products/facets?category_type=&category=
// GET v1/products/{slug}
// GET v1/categories
// GET v1/product-types
// GET v1/testimonials?featured=true

type CatalogHandler struct {
	catalog port.Catalog
}

func RegisterCatalog(mux *http.ServeMux, catalog port.Catalog) {
	h := CatalogHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/facets", h.ProductFacets)
	mux.HandleFunc("GET /v1/products/{slug}", h.ProductDetail)
	mux.HandleFunc("GET /v1/categories", h.Categories)
	mux.HandleFunc("GET /v1/product-types", h.ProductTypes)
	mux.HandleFunc("GET /v1/testimonials", h.Testimonials)
}

func (h CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ListProducts"
	log := slog.With("op", op, "requestID", RequestID(r.Context()))

	q := newQuery(r)
	l := domain.ProductListing{
		Filter: productFilter(q),
		Sort: domain.ProductSort{
			Field: domain.ProductSortField(q.oneOf("sort",
				string(domain.ProductSortName),
				string(domain.ProductSortPrice),
				string(domain.ProductSortFeatured),
				string(domain.ProductSortCreatedAt),
			)),
			Direction: direction(q),
		},
		Page: page(q),
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.catalog.ListProducts(r.Context(), l)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ProductPage{
		Items: toProducts(res.Items),
		Total: res.Total,
	})
	log.Debug("products listed", "nProducts", len(res.Items), "total", res.Total)
}

func (h CatalogHandler) ProductFacets(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	f := productFilter(q)
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.catalog.ProductFacets(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toFacets(res))
}

func (h CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.ProductDetail(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ProductDetail{
		Product: toProduct(res.Product),
		Related: toProducts(res.Related),
	})
}

func (h CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCategories(res))
}

func (h CatalogHandler) ProductTypes(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.ProductTypes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProductTypes(res))
}

func (h CatalogHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	featured := q.flag("featured")
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.catalog.Testimonials(r.Context(), featured != nil && *featured)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTestimonials(res))
}

func productFilter(q *query) domain.ProductFilter {
	f := domain.ProductFilter{
		CategoryType: domain.CategoryType(q.oneOf("category_type",
			string(domain.CategoryTables),
			string(domain.CategoryTableLegs),
			string(domain.CategoryOther),
		)),
		CategorySlug: q.str("category"),
		Featured:     q.flag("featured"),
		InStock:      q.flag("in_stock"),
		Search:       q.str("q"),
	}
	lo, hi := q.float("min_price"), q.float("max_price")
	if lo != nil || hi != nil {
		f.PriceRange = &domain.PriceRange{Min: lo, Max: hi}
	}
	return f
}

func direction(q *query) domain.SortDirection {
	dir := q.oneOf("dir", string(domain.Asc), string(domain.Desc))
	if dir == "" {
		return domain.Asc
	}
	return domain.SortDirection(dir)
}

func page(q *query) domain.Page {
	return domain.Page{
		Limit:  q.num("limit", 1, maxLimit),
		Offset: q.num("offset", 0, math.MaxInt32),
	}
}
