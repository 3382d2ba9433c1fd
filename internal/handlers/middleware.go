package handlers

import (
	"net/http"
	"strings"

	pp "pokemon_portal"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "user"

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// userIdentity verifies the bearer token and resolves the user it names.
// Every failure answers 401 with the same body.
func (h *Handler) userIdentity(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		h.unauthorized(c, "auth_missing_bearer", nil)
		return
	}

	id, err := h.services.VerifyToken(token)
	if err != nil {
		h.unauthorized(c, "auth_token_rejected", err)
		return
	}

	user := h.services.GetUserByID(c.Request.Context(), id.SubjectID)
	if user == nil {
		h.unauthorized(c, "auth_user_not_found", nil, "user_id", id.SubjectID)
		return
	}

	c.Set(ctxUserKey, *user)
	c.Next()
}

func (h *Handler) unauthorized(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil {
		fields := append([]interface{}{"path", c.FullPath()}, kv...)
		if err != nil {
			fields = append(fields, "err", err)
		}
		h.log.Infow(logKey, fields...)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
}

// currentUser returns the profile stored by userIdentity.
func currentUser(c *gin.Context) (pp.UserProfile, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return pp.UserProfile{}, false
	}
	u, ok := v.(pp.UserProfile)
	return u, ok
}
