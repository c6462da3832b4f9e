package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"classroom/internal/apperr"
	"classroom/internal/authz"
)

// identityKey is the gin context key the middleware stores the caller under.
const identityKey = "identity"

// AccountSource resolves the persisted account for a token subject. The
// active flag comes from the store, not the token, so deactivation takes
// effect immediately.
type AccountSource interface {
	Account(ctx context.Context, userID string) (role string, active bool, err error)
}

// Middleware enforces bearer JWT tokens signed with HS256 and resolves
// the caller identity. The inactive-account rejection is kept distinct
// from credential failures.
func Middleware(signingKey, issuer string, accounts AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(header[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		_, active, err := accounts.Account(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": apperr.Message(apperr.InactiveAccount())})
			return
		}

		c.Set(identityKey, authz.Identity{
			UserID: claims.Subject,
			Role:   claims.Role,
			Active: active,
		})
		c.Next()
	}
}

// IdentityFrom extracts the caller stored by Middleware.
func IdentityFrom(c *gin.Context) (authz.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return authz.Identity{}, false
	}
	id, ok := v.(authz.Identity)
	return id, ok
}
