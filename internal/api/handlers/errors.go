package handlers

import (
	"errors"
	"io"
	"net/http"

	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
	Code  string `json:"code" example:"validation_error"`
	From  string `json:"from,omitempty" example:"draft"`
	To    string `json:"to,omitempty" example:"approved"`
}

// respondError maps a service error to its status code and error code
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	resp := ErrorResponse{Error: err.Error(), Code: code}

	var terr *apperrors.TransitionError
	if errors.As(err, &terr) {
		resp.From, resp.To = terr.From, terr.To
	}
	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).WithError(err).
			WithField("path", c.Request.URL.Path).Error("Request failed")
		resp.Error = "internal server error"
	}

	c.AbortWithStatusJSON(status, resp)
}

func classify(err error) (int, string) {
	switch {
	case apperrors.IsValidation(err), errors.Is(err, apperrors.ErrInvalidAction),
		errors.Is(err, apperrors.ErrInvalidPaginationParams):
		return http.StatusBadRequest, "validation_error"
	case apperrors.IsAuthentication(err):
		return http.StatusUnauthorized, "authentication_failed"
	case apperrors.IsAuthorization(err):
		return http.StatusForbidden, "permission_denied"
	case apperrors.IsInvalidTransition(err):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, apperrors.ErrAlreadySubscribed):
		return http.StatusConflict, "already_subscribed"
	case errors.Is(err, apperrors.ErrNotSubscribed):
		return http.StatusNotFound, "not_subscribed"
	case errors.Is(err, apperrors.ErrConcurrentUpdate):
		return http.StatusConflict, "concurrent_update"
	case apperrors.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case apperrors.IsAlreadyExists(err):
		return http.StatusConflict, "already_exists"
	}
	return http.StatusInternalServerError, "internal_error"
}

// parseID reads the :id path parameter
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.NewValidationError("id", "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperrors.NewValidationError("body", "invalid JSON: "+err.Error()))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be absent,
// including chunked requests that carry no Content-Length
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		respondError(c, apperrors.NewValidationError("body", "invalid JSON: "+err.Error()))
		return false
	}
	return true
}
