package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/models"
	"invoice-dashboard/pkg/utils"
)

// ContextKey 用于在context中存储用户信息的键
type ContextKey string

const (
	UserContextKey ContextKey = "user"

	// SessionCookie carries the admin token for browser sessions.
	SessionCookie = "admin_session"
)

// AuthMiddleware JWT认证中间件。AUTH_REQUIRED 关闭时直接放行。
// Token 来源：Authorization: Bearer 头，其次 admin_session cookie。
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	jwtService := utils.NewJWTService(cfg.JWTSecret)
	return func(next http.Handler) http.Handler {
		if !cfg.AuthRequired {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := tokenFromRequest(r)
			if err != nil {
				fmt.Printf("❌ Auth middleware: %v (%s)\n", err, r.URL.Path)
				utils.WriteUnauthorizedResponse(w, err.Error())
				return
			}

			user, err := jwtService.ExtractUserFromToken(tokenString)
			if err != nil {
				fmt.Printf("❌ Auth middleware: token rejected: %v\n", err)
				utils.WriteUnauthorizedResponse(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			return "", fmt.Errorf("invalid authorization header format")
		}
		return strings.TrimSpace(tokenString), nil
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", fmt.Errorf("missing authorization header")
}

// GetUserFromContext 从context中获取用户信息
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}
