package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

// CorrelationMiddleware tags every request with an X-Correlation-Id,
// generating one when the caller did not send it.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.New().String()
		}
		c.Request = c.Request.WithContext(
			utils.SetCorrelationIdInContext(c.Request.Context(), correlationId))
		c.Writer.Header().Set("X-Correlation-Id", correlationId)
		c.Next()
	}
}
