package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/niksmo/furnistore/internal/adapter/content"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/tailscale/hujson"
)

// readFixture parses a HuJSON array of raw content documents.
//
// Full documents without an _id get a random one and are validated against
// the content schema. Patches must name the document they change and are
// only checked for their system fields.
func readFixture(data []byte, patch bool) ([]domain.Document, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	var raws []map[string]any
	if err := json.Unmarshal(std, &raws); err != nil {
		return nil, fmt.Errorf("fixture must be an array of objects: %w", err)
	}

	var (
		docs = make([]domain.Document, 0, len(raws))
		errs []error
	)
	for i, raw := range raws {
		if id, _ := raw["_id"].(string); id == "" {
			if patch {
				errs = append(errs, fmt.Errorf("document %d: patch requires _id", i))
				continue
			}
			raw["_id"] = uuid.NewString()
		}

		b, err := json.Marshal(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("document %d: %w", i, err))
			continue
		}

		d, err := content.ParseDocument(b)
		if err != nil {
			errs = append(errs, fmt.Errorf("document %d: %w", i, err))
			continue
		}

		if !patch {
			if err := content.ValidateDocument(d); err != nil {
				errs = append(errs, fmt.Errorf("document %d (%s): %w", i, d.ID, err))
				continue
			}
		}
		docs = append(docs, d)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return docs, nil
}
