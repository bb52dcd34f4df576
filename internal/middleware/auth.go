package middleware

import (
	"strings"

	"kandu_backend/internal/auth"
	"kandu_backend/internal/logger"
	"kandu_backend/internal/models"
	"kandu_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	roleKey   = "role"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RoleMiddleware - middleware ограничения по одному типу аккаунта
func RoleMiddleware(requiredRole models.UserType) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

// RequireRoles - пропускает только перечисленные типы аккаунта
func RequireRoles(roles ...models.UserType) gin.HandlerFunc {
	roleSet := make(map[models.UserType]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	id, _ := c.Get(userIDKey)
	s, _ := id.(string)
	return s
}

// GetRole извлекает тип аккаунта из контекста
func GetRole(c *gin.Context) (models.UserType, bool) {
	v, exists := c.Get(roleKey)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return models.UserType(s), true
}

// GetCaller собирает auth.Caller из контекста запроса
func GetCaller(c *gin.Context) (auth.Caller, bool) {
	id := GetUserID(c)
	if id == "" {
		return auth.Caller{}, false
	}
	role, _ := GetRole(c)
	return auth.Caller{UserID: id, UserType: role}, true
}
