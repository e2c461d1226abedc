package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/skillswap/skill-swap-api/internal/constants"
	"github.com/skillswap/skill-swap-api/internal/database"
	apierrors "github.com/skillswap/skill-swap-api/internal/errors"
	"github.com/skillswap/skill-swap-api/internal/models"
)

// RequireAdmin loads the authenticated user and rejects anyone without an
// active admin account. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsAdmin() || !user.IsActive {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserRole, string(user.Role))
		c.Next()
	}
}
