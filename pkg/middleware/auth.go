package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ArmaanM08/WikiDoCollab/internal/tokens"
)

// IdentityKey is the gin context key under which the verified identity is
// stored. A missing or nil value means the request is anonymous.
const IdentityKey = "identity"

// parseBearer extracts and verifies the bearer token from the Authorization
// header. Returns nil (anonymous) when the header is absent; returns an error
// only for a present-but-invalid credential. Both auth middlewares and the
// websocket handshake go through this single function.
func parseBearer(c *gin.Context, secret string) (*tokens.Identity, error) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return nil, nil
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	if raw == auth || raw == "" {
		return nil, tokens.ErrInvalidToken
	}
	return tokens.VerifyAccessToken(secret, raw)
}

// RequireAuth rejects requests without a valid, unexpired bearer token.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseBearer(c, secret)
		if err != nil || id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(IdentityKey, id)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and treats
// everything else (missing, malformed, expired) as anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := parseBearer(c, secret); err == nil && id != nil {
			c.Set(IdentityKey, id)
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity for the request, or nil for
// anonymous callers.
func IdentityFrom(c *gin.Context) *tokens.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok2 := v.(*tokens.Identity); ok2 {
			return id
		}
	}
	return nil
}
