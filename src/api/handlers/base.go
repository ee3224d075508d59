package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dividendtracker/src/api/controllers"
	"dividendtracker/src/dependencies"
	"dividendtracker/src/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller controllers.IController
	Logger     *logrus.Logger
}

func NewHandler(deps *dependencies.Dependencies) *Handler {
	return &Handler{Controller: controllers.NewController(deps), Logger: deps.Logger}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	res, err := json.Marshal(data)
	if err != nil {
		utils.LoggerFromContext(r.Context()).WithError(err).Error("failed to encode response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", utils.ContentTypeJSON)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// respondFile writes a rendered payload. A non-empty filename turns it into
// a download.
func (h *Handler) respondFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	}
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *utils.HTTPError
	logger := utils.LoggerFromContext(r.Context())
	if errors.Is(err, context.DeadlineExceeded) {
		logger.WithError(err).Warn("request timed out")
		h.respond(w, r, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	} else if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.WithError(err).Warn("request failed")
		}
		h.respond(w, r, map[string]string{"error": httpErr.Message}, httpErr.Code)
	} else if err != nil {
		logger.WithError(err).Error("unhandled error")
		h.respond(w, r, map[string]string{"error": "Internal Server Error"}, http.StatusInternalServerError)
	} else {
		h.respond(w, r, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}

func (h *Handler) decode(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return utils.BadRequest("invalid request body: %v", err)
	}
	return nil
}
