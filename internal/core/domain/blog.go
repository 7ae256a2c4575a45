package domain

import "time"

type (
	BlogPost struct {
		ID          string
		Title       string
		Slug        string
		Excerpt     string
		Body        string
		Author      string
		Category    BlogCategoryRef
		Featured    bool
		Tags        []string
		MainImage   Image
		PublishedAt *time.Time
	}

	BlogCategoryRef struct {
		ID    string
		Title string
		Slug  string
	}

	BlogCategory struct {
		ID          string
		Title       string
		Slug        string
		Description string
	}
)
