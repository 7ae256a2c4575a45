package content_test

import (
	"testing"

	"github.com/niksmo/furnistore/internal/adapter/content"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	d, err := content.ParseDocument([]byte(`{
		"_id": "c1", "_type": "productCategory", "_updatedAt": "2024-02-03T04:05:06Z",
		"title": "Tables", "slug": {"current": "tables"}, "categoryType": "tables"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "c1", d.ID)
	assert.Equal(t, domain.DocCategory, d.Type)
	assert.Equal(t, "tables", d.Slug)
	assert.Equal(t, 2024, d.UpdatedAt.Year())

	_, err = content.ParseDocument([]byte(`{"title": "no id"}`))
	assert.ErrorIs(t, err, content.ErrInvalidDocument)

	_, err = content.ParseDocument([]byte(`[]`))
	assert.ErrorIs(t, err, content.ErrInvalidDocument)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr []string
	}{
		{
			name: "ValidProduct",
			body: `{"_id": "p1", "_type": "product", "name": "Oak Table",
				"slug": {"current": "oak-table"}, "category": {"_ref": "c1"}, "price": 10}`,
		},
		{
			name: "ProductOnRequest",
			body: `{"_id": "p1", "_type": "product", "name": "Oak Table",
				"slug": {"current": "oak-table"}, "category": {"_ref": "c1"}}`,
		},
		{
			name: "InvalidProduct",
			body: `{"_id": "p1", "_type": "product", "slug": {"current": "Oak Table"}, "price": -1}`,
			wantErr: []string{
				"name is required",
				`slug "Oak Table" must be lowercase`,
				"category reference is required",
				"price must not be negative",
			},
		},
		{
			name:    "UnknownCategoryType",
			body:    `{"_id": "c1", "_type": "productCategory", "title": "Chairs", "slug": {"current": "chairs"}, "categoryType": "chairs"}`,
			wantErr: []string{`categoryType "chairs"`},
		},
		{
			name:    "Rating",
			body:    `{"_id": "t1", "_type": "testimonial", "author": "Ana", "quote": "Lovely", "rating": 6}`,
			wantErr: []string{"rating 6 is out of 1..5"},
		},
		{
			name:    "Multiplier",
			body:    `{"_id": "oak", "_type": "tableMaterial", "name": "Oak", "multiplier": 0}`,
			wantErr: []string{"multiplier must be greater than zero"},
		},
		{
			name:    "PublishedAt",
			body:    `{"_id": "b1", "_type": "blogPost", "title": "Oak", "slug": {"current": "oak"}, "publishedAt": "soon"}`,
			wantErr: []string{`publishedAt "soon"`},
		},
		{
			name:    "UnknownType",
			body:    `{"_id": "x1", "_type": "chair"}`,
			wantErr: []string{`unknown _type "chair"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := content.ParseDocument([]byte(tt.body))
			require.NoError(t, err)

			err = content.ValidateDocument(d)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, content.ErrInvalidDocument)
			for _, want := range tt.wantErr {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}
