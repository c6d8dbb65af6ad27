package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/api/respond"
	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/infrastructure/restclient"
	"github.com/hoardly/dashboard/internal/pkg/validation"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Passes backend rejections through with the backend's status and message.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the common envelope with success=false.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, slug, msg := resolveError(err, log, c)
		_ = respond.Fail(c, code, slug, msg)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, slugFor(he.Code), fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest, "validation_failed", validation.Message(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "not authenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", "access forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "invalid_role", err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "invalid_transition", err.Error()
	}

	if apiErr, ok := restclient.AsAPIError(err); ok {
		code := apiErr.Code
		if code == "" {
			code = slugFor(apiErr.StatusCode)
		}
		if apiErr.IsServerError() {
			return http.StatusBadGateway, code, restclient.MessageOf(err)
		}
		return apiErr.StatusCode, code, restclient.MessageOf(err)
	}
	if domain.IsUnavailable(err) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		return http.StatusBadGateway, "backend_unavailable", domain.MessageOf(err)
	}
	if errors.Is(err, restclient.ErrMalformedResponse) {
		return http.StatusBadGateway, "malformed_response", "the server sent an unexpected response"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal_error", "internal server error"
}

func slugFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	if status >= 500 {
		return "server_error"
	}
	return "error"
}
