package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/victorivanov/guildgate/internal/service"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error sends a JSON error response.
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// errorJSON is an alias for Error (used by some handlers).
var errorJSON = Error

// mapServiceError translates a service-layer error into a JSON error response
// with the appropriate HTTP status.
func mapServiceError(c echo.Context, err error) error {
	code, message := "INTERNAL", "internal server error"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		code, message = svcErr.Code, svcErr.Message
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrGone):
		status = http.StatusGone
	}

	return Error(c, status, code, message)
}
