package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"invoice-dashboard/pkg/config"
)

// CORS 创建CORS中间件（用于 /api 只读接口）
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"HX-Request",
			"HX-Target",
			"HX-Current-URL",
		},
		ExposedHeaders: []string{
			"HX-Trigger",
		},
		MaxAge: 300, // 5分钟
	}

	// 通配符来源不能携带凭据
	if len(cfg.AllowedOrigins) == 0 || containsOrigin(cfg.AllowedOrigins, "*") {
		corsOptions.AllowedOrigins = []string{"*"}
		corsOptions.AllowCredentials = false
	} else {
		corsOptions.AllowCredentials = true
	}

	return cors.Handler(corsOptions)
}

func containsOrigin(origins []string, item string) bool {
	for _, s := range origins {
		if s == item {
			return true
		}
	}
	return false
}
