package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HTTPError defines a custom error structure that includes an HTTP status code and message
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) error {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

func BadRequest(format string, args ...any) error {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}

func UnprocessableEntity(format string, args ...any) error {
	return NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf(format, args...))
}

func ServiceUnavailable(format string, args ...any) error {
	return NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf(format, args...))
}

// WriteError sends err as a JSON body. Errors that are not an *HTTPError
// are reported as a bare 500 without leaking their message.
func WriteError(w http.ResponseWriter, err error) {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		httpErr = &HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Internal Server Error",
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(httpErr)
}
