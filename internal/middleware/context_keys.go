package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the acting employee's ID in the Gin context.
// Using a custom type prevents collisions.
const actorIDKey = contextKey("actorID")

// GetActorIDFromContext retrieves the acting employee ID from the Gin context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}
	return actorID, true
}
