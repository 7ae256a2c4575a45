package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/niksmo/furnistore/internal/core/cart"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

// AddProductToCart adds qty units of the product with slug to c at the
// price the content store currently lists. Products priced on request
// cannot be added.
func (s Service) AddProductToCart(
	ctx context.Context, c cart.Store, slug string, qty int,
) (domain.CartSummary, error) {
	const op = "Service.AddProductToCart"

	p, err := s.content.Product(ctx, slug)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Price == nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, port.ErrNotPurchasable)
	}

	lines, err := c.Add(ctx, domain.CartLine{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: *p.Price,
		Quantity:  qty,
		Category:  p.Category.Title,
	})
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart.Summarize(lines), nil
}

// AddTableToCart quotes sel and adds qty configured tables to c. Equal
// selections share one cart line.
func (s Service) AddTableToCart(
	ctx context.Context, c cart.Store, sel domain.TableSelection, qty int,
) (domain.CartSummary, error) {
	const op = "Service.AddTableToCart"

	q, err := s.QuoteTable(ctx, sel)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	price, err := parsePrice(q.Price)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := c.Add(ctx, domain.CartLine{
		ID:        configuredLineID(sel),
		Name:      configuredLineName(q, sel.CustomSize),
		UnitPrice: price,
		Quantity:  qty,
		Category:  "Custom tables",
	})
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart.Summarize(lines), nil
}

func (s Service) Cart(ctx context.Context, c cart.Store) (domain.CartSummary, error) {
	const op = "Service.Cart"
	v, err := c.Summary(ctx)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s Service) UpdateCartLine(
	ctx context.Context, c cart.Store, id string, qty int,
) (domain.CartSummary, error) {
	const op = "Service.UpdateCartLine"
	lines, err := c.UpdateQuantity(ctx, id, qty)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart.Summarize(lines), nil
}

func (s Service) RemoveCartLine(
	ctx context.Context, c cart.Store, id string,
) (domain.CartSummary, error) {
	const op = "Service.RemoveCartLine"
	lines, err := c.Remove(ctx, id)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart.Summarize(lines), nil
}

func (s Service) ClearCart(ctx context.Context, c cart.Store) error {
	const op = "Service.ClearCart"
	if err := c.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Checkout is not implemented; the cart is left untouched.
func (s Service) Checkout(ctx context.Context, c cart.Store) error {
	const op = "Service.Checkout"
	return fmt.Errorf("%s: %w", op, port.ErrCheckoutUnavailable)
}

func configuredLineID(sel domain.TableSelection) string {
	parts := []string{"table", sel.ModelSlug, sel.MaterialID, sel.SizeID, sel.QualityID}
	if sel.CustomSize {
		parts = append(parts, "custom")
	}
	opts := slices.Clone(sel.OptionIDs)
	slices.Sort(opts)
	parts = append(parts, slices.Compact(opts)...)
	return strings.Join(parts, ":")
}

func configuredLineName(q domain.TableQuote, custom bool) string {
	size := q.Size.Name
	if custom {
		size = "custom size"
	}
	return fmt.Sprintf("%s, %s, %s, %s", q.Model.Name, q.Material.Name, size, q.Quality.Name)
}

func parsePrice(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
