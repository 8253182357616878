package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skycover/skycover/internal/common"
	"github.com/skycover/skycover/internal/server/models"
)

// principalKey is the gin context key holding the authenticated user.
const principalKey = "principal"

// requestLogger logs one line per request with method, path, status, and
// latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// authRequired is the auth gate for protected routes. The token signature
// and expiry are always checked before any store access, so an unverified
// token can never force a database lookup. Responses:
//
//	missing/malformed Authorization header  -> 403
//	invalid or expired token                -> 401
//	token subject not found in the store    -> 401
//	store lookup failure                    -> 500
//
// On success the resolved user is attached to the request context.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := s.tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := s.users.GetByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// currentUser returns the principal attached by authRequired.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(principalKey).(*models.User)
}
