package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"markethub_backend/internal/identity"
	"markethub_backend/internal/logger"
)

// AuthMiddleware - middleware проверки access-токена через JWKS
func AuthMiddleware(verifier *identity.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := verifier.Verify(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Сохраняем claims в контекст
		c.Set("userID", claims.Sub)
		c.Set("userEmail", claims.Email)

		ctx := logger.WithUserID(c.Request.Context(), claims.Sub)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
