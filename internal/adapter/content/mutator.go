package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/niksmo/furnistore/pkg/retry"
)

var _ port.DocumentsWriter = (*Mutator)(nil)

const (
	mutationBatch   = 100
	mutateAttempts  = 4
	mutateBaseDelay = 250 * time.Millisecond
)

var ErrNoToken = errors.New("write token is required")

// A Mutator writes documents to the content store. Rate limited and
// failed server answers are retried with exponential backoff.
type Mutator struct {
	cl       *http.Client
	endpoint string
	token    string
	retry    retry.RetryConfig
}

func NewMutator(cfg Config, opts ...Opt) (*Mutator, error) {
	const op = "NewMutator"

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoToken)
	}

	o, err := applyOpts(cfg, false, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if o.backoff == nil {
		o.backoff = retry.ExponentialBackoff(mutateBaseDelay)
	}

	return &Mutator{
		cl:       o.client,
		endpoint: endpoint(o, cfg, "mutate"),
		token:    cfg.Token,
		retry: retry.RetryConfig{
			MaxAttempts: mutateAttempts,
			Backoff:     o.backoff,
			ShouldRetry: temporary,
		},
	}, nil
}

// CreateOrReplace writes whole documents.
func (m *Mutator) CreateOrReplace(ctx context.Context, docs []domain.Document) error {
	const op = "Mutator.CreateOrReplace"

	ms := make([]mutation, 0, len(docs))
	for _, d := range docs {
		ms = append(ms, mutation{CreateOrReplace: json.RawMessage(d.Body)})
	}

	if err := m.mutate(ctx, ms); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Patch sets the fields present in each document body, leaving the other
// fields of the stored documents intact. System fields are not patched.
func (m *Mutator) Patch(ctx context.Context, docs []domain.Document) error {
	const op = "Mutator.Patch"

	ms := make([]mutation, 0, len(docs))
	for _, d := range docs {
		var set map[string]json.RawMessage
		if err := json.Unmarshal(d.Body, &set); err != nil {
			return fmt.Errorf("%s: %w: %s: %w", op, ErrInvalidDocument, d.ID, err)
		}
		for k := range set {
			if len(k) > 0 && k[0] == '_' {
				delete(set, k)
			}
		}
		ms = append(ms, mutation{Patch: &patch{ID: d.ID, Set: set}})
	}

	if err := m.mutate(ctx, ms); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type mutation struct {
	CreateOrReplace json.RawMessage `json:"createOrReplace,omitempty"`
	Patch           *patch          `json:"patch,omitempty"`
}

type patch struct {
	ID  string                     `json:"id"`
	Set map[string]json.RawMessage `json:"set"`
}

type mutateRequest struct {
	Mutations []mutation `json:"mutations"`
}

func (m *Mutator) mutate(ctx context.Context, ms []mutation) error {
	const op = "mutate"
	log := slog.With("op", op)

	for start := 0; start < len(ms); start += mutationBatch {
		end := min(start+mutationBatch, len(ms))

		b, err := json.Marshal(mutateRequest{Mutations: ms[start:end]})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		var attempt int
		err = retry.Do(ctx, m.retry, func() error {
			attempt++
			err := m.send(ctx, b)
			if err != nil && temporary(err) {
				log.Warn("mutation failed, retrying", "attempt", attempt, "err", err)
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Debug("mutations applied", "nMutations", end-start)
	}
	return nil
}

func (m *Mutator) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, m.endpoint+"?returnIds=true", bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	res, err := m.cl.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return checkStatus(res)
}

// temporary reports whether a failed mutation may succeed when repeated:
// rate limiting, server failures and transport errors other than
// cancellation.
func temporary(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.temporary()
	}
	return true
}
