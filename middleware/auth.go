package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"bookvault/config"
)

// CallerAddrKey is the context key the extracted caller address is stored
// under.
const CallerAddrKey = "callerAddr"

// CallerIdentityMiddleware extracts the authenticated caller address from the
// bearer token minted by the upstream auth layer. The engine never verifies
// signatures itself; this edge only reads the "addr" claim out of a token the
// gateway already vouched for.
func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		addr, _ := claims["addr"].(string)
		if addr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token carries no caller address"})
			return
		}

		c.Set(CallerAddrKey, addr)
		c.Next()
	}
}

// CallerAddr returns the authenticated caller address set by
// CallerIdentityMiddleware.
func CallerAddr(c *gin.Context) string {
	return c.GetString(CallerAddrKey)
}
