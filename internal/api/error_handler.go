package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/client-registry/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// Details is only set for validation failures; Partial only when the client
// was committed before a later stage failed.
type errorResponse struct {
	Error   string             `json:"error"`
	Details []domain.Violation `json:"details,omitempty"`
	Partial bool               `json:"partial,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: ve.Error(), Details: ve.Violations}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, errorResponse{Error: "client not found"}
	case errors.Is(err, domain.ErrMailTaken):
		return http.StatusConflict, errorResponse{Error: "mail already registered"}
	case errors.Is(err, domain.ErrClientInactive):
		return http.StatusBadRequest, errorResponse{Error: "client already inactive"}
	}

	var partial *domain.PartialSuccessError
	if errors.As(err, &partial) {
		log.Error().
			Err(err).
			Str("stage", partial.Stage).
			Str("path", c.Path()).
			Msg("registration partially failed")
		return http.StatusInternalServerError, errorResponse{
			Error:   "client created but " + partial.Stage + " failed",
			Partial: true,
		}
	}

	if errors.Is(err, domain.ErrDefaultRoleMissing) {
		log.Error().Err(err).Msg("default role missing, run the seed command")
		return http.StatusInternalServerError, errorResponse{Error: "service misconfigured"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
