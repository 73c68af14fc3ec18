// Package handlers adapts HTTP requests to the services layer. Handlers
// collect the request body and path parameters into one input map, read the
// identity set by middleware, call exactly one use-case, and translate its
// result with respondError.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/middleware"
	"github.com/orgdesk/orgdesk/internal/services"
	"github.com/orgdesk/orgdesk/internal/telemetry"
	"github.com/orgdesk/orgdesk/internal/validation"
)

// maxBodyBytes bounds request bodies; every payload here is a handful of fields
const maxBodyBytes = 1 << 20

// input decodes the JSON body into a map and overlays the route's path
// parameters. A missing or unparseable body becomes an empty object so the
// schema reports required fields instead of a decode error.
func input(c *gin.Context) map[string]any {
	in := map[string]any{}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err == nil && len(body) > 0 {
		var decoded map[string]any
		if json.Unmarshal(body, &decoded) == nil && decoded != nil {
			in = decoded
		}
	}

	for _, p := range c.Params {
		in[p.Key] = p.Value
	}
	return in
}

// respondError writes the error envelope for err. Validation failures are
// returned verbatim; everything unclassified is logged and hidden behind a
// generic 500.
func respondError(c *gin.Context, err error) {
	if ve, ok := validation.AsError(err); ok {
		for _, fe := range ve.Errors {
			telemetry.ValidationFailuresTotal.WithLabelValues(fe.Rule).Inc()
		}
		c.JSON(http.StatusUnprocessableEntity, ve)
		return
	}

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorBody("Unauthorized access"))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, middleware.ErrorBody("Invalid user credentials"))
	default:
		slog.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", middleware.RequestID(c),
		)
		c.JSON(http.StatusInternalServerError, middleware.ErrorBody("Internal server error"))
	}
}
