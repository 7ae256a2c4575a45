package schema

import "time"

const ContentDocumentSchemaTextV1 = `{
	"type": "record",
	"namespace": "furnistore.content",
	"name": "ContentDocument",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "doc_type", "type": "string"},
		{"name": "slug", "type": "string", "default": ""},
		{"name": "body", "type": "bytes"},
		{"name": "partial", "type": "boolean", "default": false},
		{"name": "deleted", "type": "boolean", "default": false},
		{"name": "updated_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

// ContentDocumentV1 is a raw content store document on its way to the
// mirror. Body is the JSON document.
type ContentDocumentV1 struct {
	ID        string    `avro:"id"`
	DocType   string    `avro:"doc_type"`
	Slug      string    `avro:"slug"`
	Body      []byte    `avro:"body"`
	Partial   bool      `avro:"partial"`
	Deleted   bool      `avro:"deleted"`
	UpdatedAt time.Time `avro:"updated_at"`
}
