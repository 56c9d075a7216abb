package middleware

import (
	"net/http"
	"strings"

	"shiftscore_backend/internal/auth"
	"shiftscore_backend/internal/logger"
	"shiftscore_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves identity when a token is present but lets
// anonymous requests through. Listing endpoints use it: the same route serves
// both audiences and the visibility layer decides what each one sees.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromHeader(c); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := auth.ParseToken(tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
	ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// RoleMiddleware restricts a route to one role.
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user ID, or "" for anonymous requests.
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

// GetUserRole returns the authenticated role, or "" for anonymous requests.
func GetUserRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get("role")
	if !exists {
		return ""
	}

	roleStr, ok := roleVal.(string)
	if !ok {
		return ""
	}
	return models.UserRole(roleStr)
}
