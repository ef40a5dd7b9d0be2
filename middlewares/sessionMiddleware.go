package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

// SessionMiddleware resolves the "token" header to a staff session and
// puts the staff identity into the request context. Requests without a
// token pass through; handlers that need auth call RequireSession.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}
		session, exists, err := models.GetSession(token)
		if err != nil || !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetStaffIdInContext(ctx, session.StaffId)
		ctx = utils.SetStaffNameInContext(ctx, session.Name)
		ctx = utils.SetStaffRoleInContext(ctx, session.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireSession aborts with 401 when no staff session is present.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetStaffIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 unless the session carries the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := utils.GetStaffRoleFromContext(c.Request.Context())
		if !ok || role != "admin" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
