package middleware

import (
	"mime"
	"net/http"
	"strings"

	"invoice-dashboard/pkg/utils"
)

// RequireContentType 验证 POST 请求的 Content-Type（忽略charset等参数）
func RequireContentType(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				utils.WriteUnsupportedMediaTypeResponse(w, "Content-Type header is required")
				return
			}
			mediaType, _, err := mime.ParseMediaType(contentType)
			if err != nil {
				utils.WriteUnsupportedMediaTypeResponse(w, "Malformed Content-Type header")
				return
			}
			for _, want := range allowed {
				if strings.EqualFold(mediaType, want) {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.WriteUnsupportedMediaTypeResponse(w, "Content-Type must be "+strings.Join(allowed, " or "))
		})
	}
}

// MaxBodySize 限制请求体大小
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
