package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorHeader names the header through which the authentication layer (an
// external collaborator) forwards the acting employee's id.
const actorHeader = "X-Actor-ID"

// ActorMiddleware extracts the acting employee id from the request header and
// stores it in both the Gin context and the request context. When required is
// true, requests without an actor are rejected.
func ActorMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(actorHeader)
		if actorID == "" && required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + actorHeader + " header"})
			return
		}
		if actorID != "" {
			c.Set(string(actorIDKey), actorID)
			ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
