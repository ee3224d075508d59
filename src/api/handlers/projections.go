package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"dividendtracker/src/utils"

	"github.com/go-chi/chi/v5"
)

// projectionParams reads ?live=true&start=YYYY-MM. start defaults to the
// current month.
func projectionParams(r *http.Request) (bool, time.Time, error) {
	live := false
	if raw := r.URL.Query().Get("live"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return false, time.Time{}, utils.BadRequest("invalid live flag %q", raw)
		}
		live = parsed
	}
	start, err := utils.ParseMonth(r.URL.Query().Get("start"), time.Now())
	if err != nil {
		return false, time.Time{}, utils.UnprocessableEntity("%s", err.Error())
	}
	return live, start, nil
}

func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	live, start, err := projectionParams(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	p, err := h.Controller.GetProjection(ctx, chi.URLParam(r, "id"), live, start)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, p, http.StatusOK)
}

func (h *Handler) GetSectors(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sectors, err := h.Controller.GetSectors(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, sectors, http.StatusOK)
}

func (h *Handler) GetIncomeChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	live, start, err := projectionParams(r)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	page, err := h.Controller.RenderIncomeChart(ctx, chi.URLParam(r, "id"), live, start)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respondFile(w, utils.ContentTypeHTML, "", page)
}

func (h *Handler) GetSectorChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	page, err := h.Controller.RenderSectorChart(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respondFile(w, utils.ContentTypeHTML, "", page)
}
