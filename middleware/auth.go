package middleware

import (
	"net/http"
	"strings"

	"roamstay/models"
	"roamstay/utils"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// JWTAuthMiddleware validates the bearer token and stores the
// authenticated actor on the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		id, email, admin, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(actorContextKey, models.Actor{ID: id, Email: email, IsAdmin: admin})
		c.Next()
	}
}

// AdminOnly rejects requests whose actor lacks the admin flag. Must
// run after JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// ActorFrom reads the authenticated actor set by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	val, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := val.(models.Actor)
	return actor, ok
}
