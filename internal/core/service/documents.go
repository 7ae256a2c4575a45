package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

var (
	_ port.Catalog           = (*Service)(nil)
	_ port.Blog              = (*Service)(nil)
	_ port.TableConfigurator = (*Service)(nil)
	_ port.CartKeeper        = (*Service)(nil)
	_ port.DocumentsSeeder   = (*Service)(nil)
	_ port.DocumentsSaver    = (*Service)(nil)
)

var errNoWriter = errors.New("documents writer is not configured")

// SeedDocuments writes docs to the content store, replacing whole
// documents or patching their fields, then announces them to the content
// mirror when a producer is configured.
func (s Service) SeedDocuments(
	ctx context.Context, docs []domain.Document, patch bool,
) error {
	const op = "Service.SeedDocuments"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.writer == nil {
		return fmt.Errorf("%s: %w", op, errNoWriter)
	}
	if len(docs) == 0 {
		return nil
	}

	var err error
	if patch {
		err = s.writer.Patch(ctx, docs)
	} else {
		err = s.writer.CreateOrReplace(ctx, docs)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("documents written", "nDocuments", len(docs), "patch", patch)

	if s.producer == nil {
		return nil
	}

	events := make([]domain.Document, len(docs))
	for i, d := range docs {
		d.Partial = patch
		events[i] = d
	}

	if err := s.producer.ProduceDocuments(ctx, events); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("documents published", "nDocuments", len(docs))
	return nil
}

// SaveDocuments stores docs in the content mirror.
func (s Service) SaveDocuments(ctx context.Context, docs []domain.Document) error {
	const op = "Service.SaveDocuments"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.storage.StoreDocuments(ctx, docs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
