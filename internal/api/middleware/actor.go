// backend-go/internal/api/middleware/actor.go
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/radiocast/backend-go/internal/domain"
)

const actorContextKey = "actor"

// Actor resolves the current actor from the trusted headers the session
// gateway injects. Session and cookie mechanics live upstream; this backend
// only consumes the opaque id + role pair.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		idHeader := c.GetHeader("X-Actor-ID")
		role := c.GetHeader("X-Actor-Role")
		if idHeader == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		id, err := strconv.ParseInt(idHeader, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid actor id"})
			return
		}

		c.Set(actorContextKey, domain.Actor{ID: id, Role: domain.Role(role)})
		c.Next()
	}
}

// CurrentActor returns the actor resolved by the Actor middleware.
func CurrentActor(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

// RequireRoles aborts with 403 unless the actor holds one of the given
// roles. Runs after Actor.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
	}
}
