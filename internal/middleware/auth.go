package middleware

import (
	"net/http"
	"strings"

	"team-task-board/internal/auth"
	"team-task-board/internal/session"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the JWT in the Authorization header and checks
// that its session is still registered, so logged-out tokens stop working.
func JWTAuthMiddleware(sessions *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		// Fallback for WebSocket/browser where custom headers cannot be set: allow token in query param
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		// Validate token
		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Reject tokens whose session was ended by logout
		if !sessions.Has(claims.ID) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session has ended",
			})
			c.Abort()
			return
		}

		// Store user info in context for use in handlers
		c.Set("user_id", claims.UserID)
		c.Set("name", claims.Name)
		c.Set("role", string(claims.Role))
		c.Set("token_id", claims.ID)

		c.Next()
	}
}
