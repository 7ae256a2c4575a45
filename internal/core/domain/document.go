package domain

import "time"

// Document types of the content store.
const (
	DocProduct       = "product"
	DocCategory      = "productCategory"
	DocProductType   = "productType"
	DocBlogPost      = "blogPost"
	DocBlogCategory  = "blogCategory"
	DocTestimonial   = "testimonial"
	DocTableModel    = "tableModel"
	DocTableMaterial = "tableMaterial"
	DocTableSize     = "tableSize"
	DocTableQuality  = "tableQuality"
	DocTableOption   = "tableOption"
)

// A Document is a raw content store document. Body holds the JSON
// document as the content store keeps it, references unresolved. A
// Partial document carries only the fields set by a patch.
type Document struct {
	ID        string
	Type      string
	Slug      string
	Body      []byte
	Partial   bool
	Deleted   bool
	UpdatedAt time.Time
}
