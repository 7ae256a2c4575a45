package httphandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/furnistore/internal/adapter/cartstorage"
	"github.com/niksmo/furnistore/internal/core/cart"
	"github.com/niksmo/furnistore/internal/core/domain"
	"github.com/niksmo/furnistore/internal/core/port"
)

// GET v1/cart
// POST v1/cart JSON {"product": slug, "quantity"} or {"table": {...}, "quantity"} (200 OK, 400 Bad request, 409 Conflict)
// DELETE v1/cart (204 No content)
// PATCH v1/cart/{id} JSON {"quantity"}, zero or less removes the line
// DELETE v1/cart/{id}
// POST v1/checkout (501 Not implemented)

// CartHandler keeps the cart in a cookie of the request it serves.
type CartHandler struct {
	keeper    port.CartKeeper
	cookieCfg cartstorage.CookieConfig
}

func RegisterCart(
	mux *http.ServeMux, keeper port.CartKeeper, cookieCfg cartstorage.CookieConfig,
) {
	h := CartHandler{keeper, cookieCfg}
	mux.HandleFunc("GET /v1/cart", h.Cart)
	mux.HandleFunc("POST /v1/cart", h.Add)
	mux.HandleFunc("DELETE /v1/cart", h.Clear)
	mux.HandleFunc("PATCH /v1/cart/{id}", h.Update)
	mux.HandleFunc("DELETE /v1/cart/{id}", h.Remove)
	mux.HandleFunc("POST /v1/checkout", h.Checkout)
}

func (h CartHandler) store(w http.ResponseWriter, r *http.Request) cart.Store {
	return cart.New(cartstorage.NewCookie(w, r, h.cookieCfg))
}

func (h CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	res, err := h.keeper.Cart(r.Context(), h.store(w, r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCartSummary(res))
}

func (h CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.Add"
	log := slog.With("op", op, "requestID", RequestID(r.Context()))

	var req AddToCart
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if (req.Product == "") == (req.Table == nil) {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, errors.Join(
			errors.New("want exactly one of product or table"),
		)))
		return
	}

	var (
		c   = h.store(w, r)
		res domain.CartSummary
		err error
	)
	if req.Table != nil {
		res, err = h.keeper.AddTableToCart(r.Context(), c, req.Table.toDomain(), req.Quantity)
	} else {
		res, err = h.keeper.AddProductToCart(r.Context(), c, req.Product, req.Quantity)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toCartSummary(res))
	log.Debug("added to cart", "nItems", res.ItemCount, "subtotal", res.Subtotal)
}

func (h CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartLine
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Quantity == nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, errors.Join(
			errors.New("quantity: required"),
		)))
		return
	}

	res, err := h.keeper.UpdateCartLine(
		r.Context(), h.store(w, r), r.PathValue("id"), *req.Quantity,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCartSummary(res))
}

func (h CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	res, err := h.keeper.RemoveCartLine(r.Context(), h.store(w, r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCartSummary(res))
}

func (h CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.keeper.ClearCart(r.Context(), h.store(w, r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if err := h.keeper.Checkout(r.Context(), h.store(w, r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
