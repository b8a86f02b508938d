package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/serviexpress/scheduling-api/internal/handler"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	"github.com/serviexpress/scheduling-api/internal/service/auth"
	"github.com/serviexpress/scheduling-api/internal/service/rbac"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

type AuthMiddleware struct {
	authService *auth.Service
	rbacService *rbac.Service
}

func NewAuthMiddleware(authService *auth.Service, rbacService *rbac.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		rbacService: rbacService,
	}
}

// Authenticate verifies the bearer token and stores the caller identity in
// both the gin context and the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)

		// Make the caller visible to services that read the request context.
		ctx := context.WithValue(c.Request.Context(), audit.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequirePermission gates the route on the caller holding the action on
// the named form. Missing grants yield 403, never 404.
func (m *AuthMiddleware) RequirePermission(formCode string, action model.PermissionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := audit.UserIDFromContext(c.Request.Context())

		allowed, err := m.rbacService.HasPermission(c.Request.Context(), userID, formCode, action)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to resolve permissions"))
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient permissions"))
			c.Abort()
			return
		}

		c.Next()
	}
}
