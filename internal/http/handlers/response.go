// Package handlers provides the HTTP handlers of the admin API.
//
// Every failure leaves through fail, which maps the domain error kind to a
// status code and the wire body:
//
//	HTTP/1.1 404 Not Found
//	{ "error_message": "Teacher is not found" }
//
// Store and transport failures are logged with the request-scoped logger and
// answered with a fixed message so internal details never reach the client.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
	"github.com/tbourn/tutor-admin-backend/internal/http/middleware"
)

// Fixed caller-facing messages for 5xx responses and binding failures.
const (
	msgStoreError     = "Database error"
	msgInternalError  = "Internal Server error"
	msgInvalidJSON    = "Please provide valid json input"
	msgInvalidID      = "Invalid id"
	msgRouteNotFound  = "route not found"
	msgMethodNotAllow = "method not allowed"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	ErrorMessage string `json:"error_message" example:"Teacher is not found"`
}

// statusFor maps an error kind to its HTTP status and caller-facing message.
func statusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound, messageOf(err)
	case domain.KindInvalidInput:
		return http.StatusBadRequest, messageOf(err)
	case domain.KindStore:
		return http.StatusInternalServerError, msgStoreError
	case domain.KindTransport:
		return http.StatusInternalServerError, msgInternalError
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

func messageOf(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}

// fail aborts the request with the envelope for err. 5xx responses are logged
// together with the wrapped cause.
func fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Err(err).
			Int("status", status).
			Str("kind", domain.KindOf(err).String()).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{ErrorMessage: msg})
}

// Fail is the exported variant of fail for the router's fallback handlers.
func Fail(c *gin.Context, err error) { fail(c, err) }

// MethodNotAllowed answers 405 with the standard envelope.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, ErrorResponse{ErrorMessage: msgMethodNotAllow})
}

// RouteNotFound answers 404 for unmatched paths.
func RouteNotFound(c *gin.Context) {
	fail(c, domain.NotFound(msgRouteNotFound))
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
