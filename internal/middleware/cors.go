package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows cross-origin calls from the trusted origins. "*" trusts any origin.
func CORS(trustedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Add("Vary", "Origin")
		header.Add("Vary", "Access-Control-Request-Method")

		origin := c.GetHeader("Origin")
		if origin != "" {
			for _, trusted := range trustedOrigins {
				if origin != trusted && trusted != "*" {
					continue
				}
				header.Set("Access-Control-Allow-Origin", origin)
				// credentials only for explicitly listed origins
				if trusted != "*" {
					header.Set("Access-Control-Allow-Credentials", "true")
				}

				// preflight
				if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
					header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
					c.AbortWithStatus(http.StatusNoContent)
					return
				}
				break
			}
		}

		c.Next()
	}
}
