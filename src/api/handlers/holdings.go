package handlers

import (
	"context"
	"net/http"
	"time"

	"dividendtracker/src/schemas"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	holdings, err := h.Controller.ListHoldings(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, holdings, http.StatusOK)
}

func (h *Handler) AddHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.HoldingRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	holding, err := h.Controller.AddHolding(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, holding, http.StatusCreated)
}

func (h *Handler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.HoldingRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	holding, err := h.Controller.UpdateHolding(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "symbol"), &req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, holding, http.StatusOK)
}

func (h *Handler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Controller.RemoveHolding(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "symbol")); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, nil, http.StatusNoContent)
}

func (h *Handler) ListDividends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payments, err := h.Controller.ListDividends(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "symbol"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, payments, http.StatusOK)
}

func (h *Handler) AppendDividend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.DividendRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	payments, err := h.Controller.AppendDividend(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "symbol"), &req)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, payments, http.StatusCreated)
}

// SyncDividends talks to the data provider, so it gets a longer deadline.
func (h *Handler) SyncDividends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	resp, err := h.Controller.SyncDividends(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "symbol"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, resp, http.StatusOK)
}
