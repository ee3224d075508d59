package handlers

import (
	"context"
	"net/http"
	"time"

	"dividendtracker/src/schemas"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	portfolios, err := h.Controller.ListPortfolios(ctx)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, portfolios, http.StatusOK)
}

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	portfolio, err := h.Controller.GetPortfolio(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, portfolio, http.StatusOK)
}

func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreatePortfolioRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	portfolio, err := h.Controller.CreatePortfolio(ctx, &req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, portfolio, http.StatusCreated)
}

func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Controller.DeletePortfolio(ctx, chi.URLParam(r, "id")); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, nil, http.StatusNoContent)
}
