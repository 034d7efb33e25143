package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects bodied write requests that do not declare a
// JSON content type. Empty bodies pass, some endpoints take none.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !methodHasBody(c.Request.Method) || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		ct := strings.ToLower(c.GetHeader("Content-Type"))
		// "application/json; charset=utf-8" counts
		if !strings.HasPrefix(ct, "application/json") {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"success": false,
				"message": "Content-Type must be application/json",
			})
			return
		}

		c.Next()
	}
}

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
