package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
	"github.com/niksmo/furnistore/internal/core/pricing"
)

func (s Service) Configurator(ctx context.Context) (domain.Configurator, error) {
	const op = "Service.Configurator"
	v, err := s.content.Configurator(ctx)
	if err != nil {
		return domain.Configurator{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// QuoteTable prices a configurator selection. Every referenced entity must
// exist; the custom size surcharge applies only to models allowing it.
func (s Service) QuoteTable(
	ctx context.Context, sel domain.TableSelection,
) (domain.TableQuote, error) {
	const op = "Service.QuoteTable"

	if err := ctx.Err(); err != nil {
		return domain.TableQuote{}, fmt.Errorf("%s: %w", op, err)
	}

	cfg, err := s.content.Configurator(ctx)
	if err != nil {
		return domain.TableQuote{}, fmt.Errorf("%s: %w", op, err)
	}

	q, err := quote(cfg, sel)
	if err != nil {
		return domain.TableQuote{}, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

func quote(cfg domain.Configurator, sel domain.TableSelection) (domain.TableQuote, error) {
	var (
		q    domain.TableQuote
		errs []error
		ok   bool
	)

	if q.Model, ok = find(cfg.Models, func(v domain.TableModel) bool {
		return v.Slug == sel.ModelSlug
	}); !ok {
		errs = append(errs, fmt.Errorf("unknown model %q", sel.ModelSlug))
	}
	if q.Material, ok = find(cfg.Materials, func(v domain.TableMaterial) bool {
		return v.ID == sel.MaterialID
	}); !ok {
		errs = append(errs, fmt.Errorf("unknown material %q", sel.MaterialID))
	}
	if q.Size, ok = find(cfg.Sizes, func(v domain.TableSize) bool {
		return v.ID == sel.SizeID
	}); !ok {
		errs = append(errs, fmt.Errorf("unknown size %q", sel.SizeID))
	}
	if q.Quality, ok = find(cfg.Qualities, func(v domain.TableQuality) bool {
		return v.ID == sel.QualityID
	}); !ok {
		errs = append(errs, fmt.Errorf("unknown quality %q", sel.QualityID))
	}

	var optionsTotal float64
	seen := make(map[string]bool, len(sel.OptionIDs))
	for _, id := range sel.OptionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		opt, ok := find(cfg.Options, func(v domain.TableOption) bool {
			return v.ID == id
		})
		if !ok {
			errs = append(errs, fmt.Errorf("unknown option %q", id))
			continue
		}
		q.Options = append(q.Options, opt)
		optionsTotal += opt.Price
	}

	if sel.CustomSize && q.Model.ID != "" && !q.Model.AllowsCustomSize {
		errs = append(errs, fmt.Errorf("model %q has no custom sizes", q.Model.Slug))
	}

	if len(errs) != 0 {
		return domain.TableQuote{}, fmt.Errorf(
			"%w: %w", port.ErrInvalidQuote, errors.Join(errs...),
		)
	}

	q.Components = domain.PriceComponents{
		BasePrice:          q.Model.BasePrice,
		MaterialMultiplier: q.Material.Multiplier,
		SizeMultiplier:     q.Size.Multiplier,
		QualityMultiplier:  q.Quality.Multiplier,
	}
	if sel.CustomSize {
		pct := q.Model.CustomSizeSurchargePercent
		q.Components.CustomSizeAdjustmentPercent = &pct
	}
	if len(q.Options) != 0 {
		q.Components.AdditionalOptions = &optionsTotal
	}

	q.Price = pricing.Format(pricing.Calculate(q.Components))
	return q, nil
}

func find[T any](vs []T, match func(T) bool) (T, bool) {
	for _, v := range vs {
		if match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
