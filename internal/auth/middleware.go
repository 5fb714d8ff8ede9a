package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"syncmonitor/internal/config"
)

const identityKey = "auth.identity"

// RequireBearerMiddleware validates the Authorization header on /api/ routes
// and stores the resolved Identity on the gin context. Infra endpoints stay
// open so probes and dashboards can reach them without a token.
func RequireBearerMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Next()
			return
		}
		p := c.Request.URL.Path
		if p == "/healthz" || p == "/readyz" || p == "/docs" || strings.HasPrefix(p, "/swagger") {
			c.Next()
			return
		}
		if strings.HasPrefix(p, "/api/") {
			header := strings.TrimSpace(c.GetHeader("Authorization"))
			if !strings.HasPrefix(header, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
				return
			}
			claims, err := ParseToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), cfg.Secret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid bearer token"})
				return
			}
			c.Set(identityKey, Identity{
				UserID:         strings.TrimSpace(claims.UserID),
				OrganizationID: strings.TrimSpace(claims.OrganizationID),
			})
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity stored by RequireBearerMiddleware.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	if !ok || ident.Empty() {
		return Identity{}, false
	}
	return ident, true
}
