package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows browser clients from the configured origins.
// Unlisted origins get no CORS headers at all; the browser enforces
// the rest.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(ctx *gin.Context) {
		ctx.Header("Vary", "Origin")

		origin := ctx.GetHeader("Origin")
		if _, ok := allowed[origin]; ok && origin != "" {
			ctx.Header("Access-Control-Allow-Origin", origin)
			ctx.Header("Access-Control-Allow-Credentials", "true")
			ctx.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			ctx.Header("Access-Control-Allow-Headers", "Authorization,Content-Type")
		}

		// preflight ends here
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
