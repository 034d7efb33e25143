package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gallerie/storefront/internal/domain/user"
	"github.com/gallerie/storefront/internal/http/middlewares"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter mounts one handler per test behind a stub identity
// middleware, standing in for the real session resolution.
func setupRouter(method, path string, u user.User, admin bool, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(func(c *gin.Context) {
		if u.ID != "" {
			c.Set(middlewares.CtxUser, u)
			c.Set(middlewares.CtxIsAdmin, admin)
		}
		c.Next()
	})

	r.Handle(method, path, h)

	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v\nbody=%s", err, w.Body.String())
	}
	return body
}
