package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel_backend/internal/models"
	"hotel_backend/internal/service"
)

// context 中的鍵
const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
	TokenKey    = "token"
)

// TokenValidator 驗證 token 並回傳使用者資訊
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*service.AuthClaims, error)
}

// RequireAuth 是一個 Gin 中間件，用於驗證請求的 JWT token
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
			return
		}

		// 檢查 Authorization 頭的格式
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortWith(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header format must be Bearer {token}")
			return
		}
		token := strings.TrimSpace(parts[1])

		claims, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrStorage) {
				abortWith(c, http.StatusInternalServerError, "STORAGE", "cannot verify token")
				return
			}
			abortWith(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		// 將用戶信息設置到上下文中
		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// RequireRoles 只允許指定角色，必須放在 RequireAuth 之後
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWith(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	}
}

// CurrentUserID 取得 RequireAuth 設置的用戶 id
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func CurrentRole(c *gin.Context) models.UserRole {
	role, _ := c.Get(UserRoleKey)
	r, _ := role.(models.UserRole)
	return r
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "error": message})
}
