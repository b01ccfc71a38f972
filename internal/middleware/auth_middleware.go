package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raidroad/roadwatch/internal/utils"
)

// AuthMiddleware resolves the authenticated username from the session token.
// Accepts the http-only "token" cookie set at login, or an
// "Authorization: Bearer <token>" header for API clients.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Cookie first (browser sessions)
		tokenString, err := c.Cookie("token")

		// 2. Fall back to the Authorization header
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "login required",
			})
			c.Abort()
			return
		}

		// 3. Validate token
		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			c.Abort()
			return
		}

		// 4. Expose identity to handlers
		c.Set("username", claims.Username)
		c.Set("claims", claims)

		c.Next()
	}
}
