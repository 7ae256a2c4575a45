// Package cart keeps the shopping cart in a client-held key-value store.
//
// The whole cart is one JSON array under StorageKey. Every mutation reads
// it, changes it and writes it back wholesale.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/pricing"
)

const StorageKey = "furniture-cart"

// MaxQuantity caps the quantity of a single line.
const MaxQuantity = 999

var ErrInvalidLine = errors.New("invalid cart line")

// A Storage is a raw key-value backend. Get reports ok=false for a
// missing key.
type Storage interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

type line struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category"`
}

type Store struct {
	storage Storage
}

func New(s Storage) Store {
	if s == nil {
		panic("cart: storage is nil") // develop mistake
	}
	return Store{s}
}

// Lines returns the stored lines. An unreadable cart is treated as empty.
func (s Store) Lines(ctx context.Context) ([]domain.CartLine, error) {
	const op = "Store.Lines"
	log := slog.With("op", op)

	data, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok || len(data) == 0 {
		return []domain.CartLine{}, nil
	}

	var ls []line
	if err := json.Unmarshal(data, &ls); err != nil {
		log.Warn("discarding unreadable cart", "err", err)
		return []domain.CartLine{}, nil
	}

	out := make([]domain.CartLine, 0, len(ls))
	for _, l := range ls {
		if l.ID == "" || l.Quantity < 1 || l.Quantity > MaxQuantity {
			continue
		}
		out = append(out, toDomain(l))
	}
	return out, nil
}

// Add puts v into the cart. A line with the same ID gets its quantity
// increased by v.Quantity instead, up to MaxQuantity.
func (s Store) Add(ctx context.Context, v domain.CartLine) ([]domain.CartLine, error) {
	const op = "Store.Add"

	if err := validate(v); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	merged := false
	for i := range lines {
		if lines[i].ID == v.ID {
			if lines[i].Quantity+v.Quantity > MaxQuantity {
				return nil, fmt.Errorf("%s: %w: quantity must be at most %d",
					op, ErrInvalidLine, MaxQuantity)
			}
			lines[i].Quantity += v.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, v)
	}

	if err := s.write(ctx, lines); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}

// UpdateQuantity sets the quantity of line id. A quantity below one
// removes the line. Unknown ids leave the cart unchanged.
func (s Store) UpdateQuantity(
	ctx context.Context, id string, quantity int,
) ([]domain.CartLine, error) {
	const op = "Store.UpdateQuantity"

	if quantity < 1 {
		lines, err := s.Remove(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return lines, nil
	}
	if quantity > MaxQuantity {
		return nil, fmt.Errorf("%s: %w: quantity must be at most %d",
			op, ErrInvalidLine, MaxQuantity)
	}

	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range lines {
		if lines[i].ID == id {
			lines[i].Quantity = quantity
		}
	}

	if err := s.write(ctx, lines); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}

func (s Store) Remove(ctx context.Context, id string) ([]domain.CartLine, error) {
	const op = "Store.Remove"

	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}

	if err := s.write(ctx, kept); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return kept, nil
}

func (s Store) Clear(ctx context.Context) error {
	const op = "Store.Clear"
	if err := s.storage.Clear(ctx, StorageKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Store) Summary(ctx context.Context) (domain.CartSummary, error) {
	const op = "Store.Summary"

	lines, err := s.Lines(ctx)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return Summarize(lines), nil
}

func Summarize(lines []domain.CartLine) domain.CartSummary {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return domain.CartSummary{
		Lines:     lines,
		ItemCount: count,
		Subtotal:  pricing.Format(pricing.Subtotal(lines)),
	}
}

func (s Store) write(ctx context.Context, lines []domain.CartLine) error {
	ls := make([]line, len(lines))
	for i, l := range lines {
		ls[i] = toLine(l)
	}

	data, err := json.Marshal(ls)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, StorageKey, data)
}

func validate(v domain.CartLine) error {
	var errs []error
	if strings.TrimSpace(v.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if v.Quantity < 1 {
		errs = append(errs, errors.New("quantity must be at least 1"))
	}
	if v.Quantity > MaxQuantity {
		errs = append(errs, fmt.Errorf("quantity must be at most %d", MaxQuantity))
	}
	if v.UnitPrice < 0 {
		errs = append(errs, errors.New("price must not be negative"))
	}
	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLine, errors.Join(errs...))
	}
	return nil
}

func toLine(v domain.CartLine) line {
	return line{
		ID:        v.ID,
		Name:      v.Name,
		UnitPrice: v.UnitPrice,
		Quantity:  v.Quantity,
		Category:  v.Category,
	}
}

func toDomain(l line) domain.CartLine {
	return domain.CartLine{
		ID:        l.ID,
		Name:      l.Name,
		UnitPrice: l.UnitPrice,
		Quantity:  l.Quantity,
		Category:  l.Category,
	}
}
