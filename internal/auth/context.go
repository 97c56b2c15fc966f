package auth

import "github.com/gin-gonic/gin"

const actorKey = "auth.actor"

func setActor(c *gin.Context, a Actor) {
	c.Set(actorKey, a)
}

// GetActor returns the authenticated caller, or the zero Actor on public routes.
func GetActor(c *gin.Context) Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(Actor); ok {
			return a
		}
	}
	return Actor{}
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string { return GetActor(c).UserID }

// GetRole returns the authenticated user's role or empty string.
func GetRole(c *gin.Context) Role { return GetActor(c).Role }
