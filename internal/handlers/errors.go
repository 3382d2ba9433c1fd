package handlers

import (
	"errors"
	"net/http"

	"pokemon_portal/internal/security"
	"pokemon_portal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized       = "unauthorized"
	errInvalidCredentials = "invalid credentials"
	errSpriteNotFound     = "sprite not found"
	errInternal           = "internal server error"
	errInvalidBodyPref    = "invalid body: "
)

// classifyError maps a service error to its status code and client-safe message.
func classifyError(err error) (int, string) {
	var (
		ve *service.ValidationError
		ue *service.UpstreamError
		ie *service.InternalError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusBadRequest, service.ErrDuplicateUsername.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, errInvalidCredentials
	case errors.Is(err, security.ErrInvalidToken), errors.Is(err, security.ErrTokenExpired):
		return http.StatusUnauthorized, errUnauthorized
	case errors.Is(err, service.ErrSpriteNotFound):
		return http.StatusNotFound, errSpriteNotFound
	case errors.As(err, &ue):
		return http.StatusBadGateway, ue.Msg
	case errors.As(err, &ie):
		return http.StatusInternalServerError, ie.Error()
	default:
		return http.StatusInternalServerError, errInternal
	}
}

// respondError logs err under logKey and writes the mapped JSON error.
// Server-side failures log at error level, client mistakes at info.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code, msg := classifyError(err)
	if h.log != nil {
		fields := append([]interface{}{"err", err, "status", code}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any, logKey string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow(logKey, "err", err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}
