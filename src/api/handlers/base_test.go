package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespond(t *testing.T) {
	h := &Handler{}

	t.Run("should write json with the given status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		h.respond(w, r, map[string]float64{"value": 1.5}, http.StatusCreated)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"value":1.5}`, w.Body.String())
	})

	t.Run("should hide encoding errors behind a generic 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		h.respond(w, r, map[string]float64{"value": math.Inf(1)}, http.StatusOK)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error\n", w.Body.String())
		assert.NotContains(t, w.Body.String(), "unsupported value")
	})

	t.Run("should write no body for 204", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		h.respond(w, r, nil, http.StatusNoContent)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}
