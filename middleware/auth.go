package middleware

import (
	"strings"

	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the Bearer token and stores the caller's wallet in
// the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			utils.Unauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		wallet, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("wallet", utils.NormalizeWallet(wallet))
		c.Next()
	}
}
