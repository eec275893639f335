package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"parking-reservation-backend/internal/auth"
	"parking-reservation-backend/internal/model"
)

const identityKey = "identity"

// RequireAuth validates the bearer credential on the request and stores the
// caller's identity in the request context. Handlers pass that identity
// explicitly into store operations; there is no ambient current-user global.
func RequireAuth(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := authSvc.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or revoked credential"})
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects callers whose credential does not carry the admin
// role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Identity(c)
		if claims == nil || claims.Role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator access required"})
			return
		}
		c.Next()
	}
}

// Identity returns the validated claims for the current request, or nil.
func Identity(c *gin.Context) *auth.Claims {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
