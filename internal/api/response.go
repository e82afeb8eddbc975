package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spigell/roadmap-matcher/internal/ai"
	"github.com/spigell/roadmap-matcher/internal/engine"
	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

const (
	CodeInvalidRequest = "invalid_request"
	CodeEmptyGoal      = "empty_goal"
	CodeNoTemplates    = "no_templates"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	respondMessage(c, status, code, msg)
}

func respondMessage(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondDomainError maps engine errors to HTTP statuses. Unknown errors are hidden behind a generic message.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roadmap.ErrEmptyGoal):
		respondError(c, http.StatusBadRequest, CodeEmptyGoal, err)
	case errors.Is(err, engine.ErrEmptyDomain), errors.Is(err, ai.ErrEmptyPhase):
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
	case errors.Is(err, roadmap.ErrNoTemplatesAvailable):
		respondError(c, http.StatusServiceUnavailable, CodeNoTemplates, roadmap.ErrNoTemplatesAvailable)
	case errors.Is(err, roadmap.ErrNotFound):
		respondMessage(c, http.StatusNotFound, CodeNotFound, "Roadmap not found")
	default:
		_ = c.Error(err)
		respondMessage(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
