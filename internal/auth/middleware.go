package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware accepts requests carrying key as a Bearer token or in the
// x-api-key header. An empty key leaves the routes open.
func Middleware(key string) gin.HandlerFunc {
	expected := strings.TrimSpace(key)
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}
		got := ""
		if v := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(v, "Bearer ") {
			got = strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
		}
		if got == "" {
			got = strings.TrimSpace(c.GetHeader("x-api-key"))
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1 {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"exception": gin.H{
				"name":    "Unauthorized",
				"message": "unauthorized",
				"code":    http.StatusUnauthorized,
				"kind":    "unauthorized",
			},
		})
	}
}
