package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	quote, err := h.Controller.GetQuote(ctx, chi.URLParam(r, "symbol"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, quote, http.StatusOK)
}
