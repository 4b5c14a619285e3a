package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kbzala12/Yt2026Ab/internal/ledger"
	"github.com/kbzala12/Yt2026Ab/pkg/models"
)

// UserIDHeader carries the caller's account id. The platform performs
// no credential verification; identity is the username-derived account
// id, and the admin capability is the role on the account record.
const UserIDHeader = "X-User-ID"

// AccountSource looks up accounts for capability checks.
type AccountSource interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// RequireAdmin middleware restricts a route to accounts carrying the
// admin role.
func RequireAdmin(accounts AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
			c.Abort()
			return
		}

		user, err := accounts.Get(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, ledger.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown account"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check account"})
			}
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
