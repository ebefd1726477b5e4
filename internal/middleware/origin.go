package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OriginCheck rejects browser requests whose Origin header matches none of
// the allowed origins. Matching is by substring, the same rule the host
// controller applies to widget messages. Requests without an Origin header
// pass: non-browser callers do not send one. An empty allow-list disables
// the check.
func OriginCheck(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || len(allowed) == 0 {
			c.Next()
			return
		}
		for _, a := range allowed {
			if a != "" && strings.Contains(origin, a) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "origin not allowed",
		})
	}
}
