package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophblog/internal/common"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorStatus maps a service error to its HTTP status and error kind.
// Forbidden is checked first so a refused write never reads as a 404.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, common.ErrorDuplicateIdentity):
		return http.StatusConflict, "duplicate_identity"
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusBadRequest, "invalid_credentials"
	case errors.Is(err, common.ErrorUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not_found"
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge, "too_large"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

var messages = map[string]string{
	"forbidden":           "only the author can change this post",
	"duplicate_identity":  "handle is already taken",
	"invalid_credentials": "invalid handle or password",
	"unauthenticated":     "authentication required",
	"not_found":           "not found",
	"too_large":           "request body is too large",
	"internal":            "internal server error",
}

func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status, kind := errorStatus(err)

	msg := messages[kind]
	if kind == "validation" {
		msg = err.Error()
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"request_id", c.GetString(requestIDKey), "error", err)
	}

	c.AbortWithStatusJSON(status, errorBody{Error: kind, Message: msg})
}

func (s *HTTPServer) badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: "bad_request", Message: msg})
}
