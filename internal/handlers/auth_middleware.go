package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

// JWTAuthMiddleware authenticates requests via the Authorization header
// and exposes user_id and user_role on the gin context.
type JWTAuthMiddleware struct {
	secret string
	logger utils.Logger
}

func NewJWTAuthMiddleware(secret string, logger utils.Logger) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		secret: secret,
		logger: logger,
	}
}

func (m *JWTAuthMiddleware) abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Message: message,
	})
}

// AuthMiddleware requires a valid bearer token.
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			m.abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			m.abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(m.secret, parts[1])
		if err != nil {
			m.abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireRoleMiddleware rejects authenticated users whose role is not in
// the allowed set. Admins pass every role check. Runs after AuthMiddleware.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("user_role")
		if !exists {
			m.abortUnauthorized(c, "User not authenticated")
			return
		}

		role, ok := raw.(models.UserRole)
		if !ok {
			m.abortUnauthorized(c, "User not authenticated")
			return
		}

		for _, allowed := range roles {
			if role == allowed || role == models.RoleAdmin {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
		})
	}
}
