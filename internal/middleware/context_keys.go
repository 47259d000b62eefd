package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the acting user's ID in the Gin context.
const actorIDKey = contextKey("actorID")

// ActorIDHeader names the request header carrying the caller identity.
const ActorIDHeader = "X-Actor-ID"

// defaultActorID attributes mutations when no actor header is supplied.
const defaultActorID = "system"

// ActorMiddleware captures the caller identity from the X-Actor-ID header so
// mutations and audit events can be attributed. Authentication itself is
// handled upstream of this service.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorIDHeader)
		if actorID == "" {
			actorID = defaultActorID
		}
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
func GetActorIDFromContext(c *gin.Context) string {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return defaultActorID
	}

	actorID, ok := actorIDVal.(string)
	if !ok || actorID == "" {
		return defaultActorID
	}

	return actorID
}
