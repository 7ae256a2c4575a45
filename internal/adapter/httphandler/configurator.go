package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/furnistore/internal/core/port"
)

// GET v1/configurator
// POST v1/configurator/quote JSON {"model", "material", "size", "quality", "custom_size", "options"} (200 OK, 400 Bad request)

type ConfiguratorHandler struct {
	configurator port.TableConfigurator
}

func RegisterConfigurator(mux *http.ServeMux, configurator port.TableConfigurator) {
	h := ConfiguratorHandler{configurator}
	mux.HandleFunc("GET /v1/configurator", h.Configurator)
	mux.HandleFunc("POST /v1/configurator/quote", h.Quote)
}

func (h ConfiguratorHandler) Configurator(w http.ResponseWriter, r *http.Request) {
	res, err := h.configurator.Configurator(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toConfigurator(res))
}

func (h ConfiguratorHandler) Quote(w http.ResponseWriter, r *http.Request) {
	const op = "ConfiguratorHandler.Quote"
	log := slog.With("op", op, "requestID", RequestID(r.Context()))

	var sel TableSelection
	if err := decodeJSON(w, r, &sel); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.configurator.QuoteTable(r.Context(), sel.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toQuote(res))
	log.Debug("quoted", "model", sel.Model, "price", res.Price)
}
