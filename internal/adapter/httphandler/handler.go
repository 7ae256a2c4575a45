// Package httphandler serves the storefront JSON API.
package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/niksmo/furnistore/internal/adapter/cartstorage"
	"github.com/niksmo/furnistore/internal/core/cart"
	"github.com/niksmo/furnistore/internal/core/port"
)

const (
	maxLimit     = 100
	maxBodyBytes = 1 << 16
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	const op = "writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.With("op", op).Error(
			"failed to write response body",
			"requestID", RequestID(r.Context()), "err", err,
		)
	}
}

// writeError maps err to a status code. Unclassified errors come from the
// content store and are reported as retryable.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	const op = "writeError"
	log := slog.With("op", op, "requestID", RequestID(r.Context()))

	var (
		status = http.StatusBadGateway
		res    = ErrorResponse{
			Error:     "content is temporarily unavailable, try again later",
			Retryable: true,
		}
	)

	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
		res = ErrorResponse{Error: errBadRequest.Error(), Details: causes(err)}
	case errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound
		res = ErrorResponse{Error: port.ErrNotFound.Error()}
	case errors.Is(err, port.ErrInvalidQuote):
		status = http.StatusBadRequest
		res = ErrorResponse{Error: port.ErrInvalidQuote.Error(), Details: causes(err)}
	case errors.Is(err, cart.ErrInvalidLine):
		status = http.StatusBadRequest
		res = ErrorResponse{Error: cart.ErrInvalidLine.Error(), Details: causes(err)}
	case errors.Is(err, port.ErrNotPurchasable):
		status = http.StatusConflict
		res = ErrorResponse{Error: port.ErrNotPurchasable.Error()}
	case errors.Is(err, cartstorage.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
		res = ErrorResponse{Error: "cart is full"}
	case errors.Is(err, port.ErrCheckoutUnavailable):
		status = http.StatusNotImplemented
		res = ErrorResponse{Error: port.ErrCheckoutUnavailable.Error()}
	}

	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		log.Error("request failed", "err", err)
	} else {
		log.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, r, status, res)
}

// causes returns the messages joined under a sentinel, as produced by
// fmt.Errorf("%w: %w", sentinel, errors.Join(...)).
func causes(err error) []string {
	var multi interface{ Unwrap() []error }
	if !errors.As(err, &multi) {
		return nil
	}
	var out []string
	for _, e := range multi.Unwrap() {
		joined, ok := e.(interface{ Unwrap() []error })
		if !ok {
			continue
		}
		for _, c := range joined.Unwrap() {
			out = append(out, c.Error())
		}
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, errors.Join(
			fmt.Errorf("invalid JSON body: %w", err),
		))
	}
	return nil
}

// A query reads typed URL query parameters and collects every malformed
// one.
type query struct {
	vs   url.Values
	errs []error
}

func newQuery(r *http.Request) *query {
	return &query{vs: r.URL.Query()}
}

func (q *query) str(name string) string {
	return strings.TrimSpace(q.vs.Get(name))
}

// list accepts both repeated and comma separated values.
func (q *query) list(name string) []string {
	var out []string
	for _, v := range q.vs[name] {
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func (q *query) float(name string) *float64 {
	s := q.str(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		q.errs = append(q.errs, fmt.Errorf("%s: want a non-negative number", name))
		return nil
	}
	return &v
}

func (q *query) flag(name string) *bool {
	s := q.str(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.errs = append(q.errs, fmt.Errorf("%s: want true or false", name))
		return nil
	}
	return &v
}

func (q *query) num(name string, lo, hi int) int {
	s := q.str(name)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		q.errs = append(q.errs, fmt.Errorf("%s: want an integer in [%d, %d]", name, lo, hi))
		return 0
	}
	return v
}

// date accepts RFC 3339 timestamps and plain dates. A plain date used as
// an end bound covers the whole day.
func (q *query) date(name string, end bool) *time.Time {
	s := q.str(name)
	if s == "" {
		return nil
	}
	if v, err := time.Parse(time.RFC3339, s); err == nil {
		return &v
	}
	v, err := time.Parse(time.DateOnly, s)
	if err != nil {
		q.errs = append(q.errs, fmt.Errorf("%s: want a date or an RFC 3339 time", name))
		return nil
	}
	if end {
		v = v.Add(24*time.Hour - time.Nanosecond)
	}
	return &v
}

func (q *query) oneOf(name string, allowed ...string) string {
	s := q.str(name)
	if s == "" {
		return ""
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	q.errs = append(q.errs, fmt.Errorf("%s: want one of %s", name, strings.Join(allowed, ", ")))
	return ""
}

func (q *query) err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", errBadRequest, errors.Join(q.errs...))
}
