package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/lifeline/blood-donation-go/config"
	models "github.com/lifeline/blood-donation-go/models"
	store "github.com/lifeline/blood-donation-go/store"
)

const (
	EmailKey = "email"
	UserKey  = "user"
)

// VerifyToken requires "Authorization: Bearer <token>" and stores the
// token's email claim under EmailKey.
func VerifyToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		claims, err := cfg.Tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

// RequireAdmin lets the request through only when the verified email
// belongs to a stored user with the admin role. Must run after VerifyToken.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	return requireRole(cfg, (*models.User).IsAdmin)
}

// RequireAdminOrVolunteer is RequireAdmin widened to volunteers.
func RequireAdminOrVolunteer(cfg *config.Config) gin.HandlerFunc {
	return requireRole(cfg, (*models.User).IsStaff)
}

// requireRole performs exactly one user lookup per request. The role is
// not cached between requests.
func requireRole(cfg *config.Config, allowed func(*models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(EmailKey)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := cfg.Store.Users.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			cfg.Logger.Error().Err(err).Str("request_id", RequestIDFrom(c)).Msg("role lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if user == nil || !allowed(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentEmail returns the email set by VerifyToken.
func CurrentEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// CurrentUser returns the user loaded by a role check, if one ran.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
