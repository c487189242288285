package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/utils"
)

// RequireRoles lets the request through when the authenticated role is one
// of roles. It must run after an auth middleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		if !allowed[models.Role(role)] {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("role %q is not allowed to access this resource", role))
			c.Abort()
			return
		}

		c.Next()
	}
}
