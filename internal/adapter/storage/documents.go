package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

var _ port.DocumentsStorage = (*DocumentsRepository)(nil)

type DocumentsRepository struct {
	sqldb sqldb
}

func NewDocumentsRepository(sqldb sqldb) DocumentsRepository {
	return DocumentsRepository{sqldb}
}

// StoreDocuments upserts vs in one transaction. A partial document merges
// its top level fields into the stored body, a deleted one is flagged.
// Documents older than the stored version are ignored.
func (r DocumentsRepository) StoreDocuments(
	ctx context.Context, vs []domain.Document,
) (storeErr error) {
	const op = "DocumentsRepository.StoreDocuments"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO documents (id, doc_type, slug, body, updated_at, deleted)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			doc_type = EXCLUDED.doc_type,
			slug = CASE
				WHEN $7::boolean AND EXCLUDED.slug = '' THEN documents.slug
				ELSE EXCLUDED.slug
			END,
			body = CASE
				WHEN $7::boolean THEN documents.body || EXCLUDED.body
				WHEN EXCLUDED.deleted THEN documents.body
				ELSE EXCLUDED.body
			END,
			updated_at = EXCLUDED.updated_at,
			deleted = EXCLUDED.deleted
		WHERE documents.updated_at <= EXCLUDED.updated_at;
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, v := range vs {
		body := v.Body
		if len(body) == 0 {
			body = []byte("{}")
		}
		_, err := stmt.ExecContext(ctx,
			v.ID, v.Type, v.Slug, string(body), v.UpdatedAt, v.Deleted, v.Partial,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec %s: %w", op, v.ID, err)
		}
	}

	log.Debug("documents stored", "nDocuments", len(vs))
	return nil
}

// LoadDocuments returns the live documents of the given types.
func (r DocumentsRepository) LoadDocuments(
	ctx context.Context, docTypes ...string,
) ([]domain.Document, error) {
	const op = "DocumentsRepository.LoadDocuments"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, doc_type, slug, body, updated_at
		FROM documents
		WHERE doc_type = ANY($1) AND NOT deleted
		ORDER BY id;
	`

	rows, err := r.sqldb.QueryContext(ctx, query, docTypes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var vs []domain.Document
	for rows.Next() {
		var (
			v    domain.Document
			body string
		)
		err := rows.Scan(&v.ID, &v.Type, &v.Slug, &body, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		v.Body = []byte(body)
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}
