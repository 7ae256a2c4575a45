package httphandler

import (
	"net/http"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

// GET v1/blog/posts?category=&featured=&tags=&from=&to=&q=&sort=&dir=&limit=&offset=
// GET v1/blog/posts/{slug}
// GET v1/blog/categories

type BlogHandler struct {
	blog port.Blog
}

func RegisterBlog(mux *http.ServeMux, blog port.Blog) {
	h := BlogHandler{blog}
	mux.HandleFunc("GET /v1/blog/posts", h.ListPosts)
	mux.HandleFunc("GET /v1/blog/posts/{slug}", h.Post)
	mux.HandleFunc("GET /v1/blog/categories", h.Categories)
}

func (h BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	l := domain.BlogPostListing{
		Filter: domain.BlogPostFilter{
			CategorySlug: q.str("category"),
			Featured:     q.flag("featured"),
			Tags:         q.list("tags"),
			Search:       q.str("q"),
		},
		Sort: domain.BlogPostSort{
			Field: domain.BlogPostSortField(q.oneOf("sort",
				string(domain.BlogPostSortTitle),
				string(domain.BlogPostSortPublishedAt),
				string(domain.BlogPostSortFeatured),
			)),
			Direction: direction(q),
		},
		Page: page(q),
	}
	start, end := q.date("from", false), q.date("to", true)
	if start != nil || end != nil {
		l.Filter.DateRange = &domain.DateRange{Start: start, End: end}
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.blog.ListBlogPosts(r.Context(), l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, BlogPostPage{
		Items: toBlogPosts(res.Items),
		Total: res.Total,
	})
}

func (h BlogHandler) Post(w http.ResponseWriter, r *http.Request) {
	res, err := h.blog.BlogPost(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBlogPost(res))
}

func (h BlogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	res, err := h.blog.BlogCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBlogCategories(res))
}
