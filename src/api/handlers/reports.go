package handlers

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"dividendtracker/src/utils"

	"github.com/go-chi/chi/v5"
)

const maxImportSize = 5 << 20

// ExportHoldings serves the holdings as csv (default) or as an xlsx workbook.
func (h *Handler) ExportHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	format := strings.ToLower(r.URL.Query().Get("format"))

	switch format {
	case "", "csv":
		data, err := h.Controller.ExportCSV(ctx, id)
		if err != nil {
			h.HandleErrors(w, r, err)
			return
		}
		h.respondFile(w, utils.ContentTypeCSV, "holdings.csv", data)
	case "xlsx":
		_, start, err := projectionParams(r)
		if err != nil {
			h.HandleErrors(w, r, err)
			return
		}
		data, err := h.Controller.ExportXLSX(ctx, id, start)
		if err != nil {
			h.HandleErrors(w, r, err)
			return
		}
		h.respondFile(w, utils.ContentTypeXLSX, "portfolio.xlsx", data)
	default:
		h.HandleErrors(w, r, utils.BadRequest("unsupported export format %q", format))
	}
}

// ImportHoldings accepts either a raw csv body or a multipart upload in the
// "file" field.
func (h *Handler) ImportHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var body io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			h.HandleErrors(w, r, utils.BadRequest("missing csv file: %v", err))
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.Controller.ImportCSV(ctx, chi.URLParam(r, "id"), body)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}

func (h *Handler) RefreshPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := h.Controller.RefreshPortfolio(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}
