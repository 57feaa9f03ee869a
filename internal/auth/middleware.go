package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// RequireAuth returns a middleware that rejects requests without a valid
// bearer token and stores the caller identity in the request context.
func (s *Service) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization format"})
			return
		}

		claims, err := s.ValidateToken(authHeader)
		if err != nil {
			s.logger.Debug("token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// RequireAdmin returns a middleware that rejects non-admin callers.
// It must run after RequireAuth.
func (s *Service) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Identity(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
			return
		}
		if !claims.IsAdmin() {
			s.logger.Warn("admin route denied",
				zap.String("user_id", claims.UserID),
				zap.String("path", c.FullPath()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Access restricted to administrators"})
			return
		}
		c.Next()
	}
}

// Identity returns the validated caller claims, or nil when the request
// did not pass RequireAuth.
func Identity(c *gin.Context) *TokenClaims {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
