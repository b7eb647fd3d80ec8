package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"invoice-dashboard/pkg/config"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger 请求日志中间件：生产环境输出JSON行，开发环境输出彩色日志
func Logger(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			entry := requestLog{
				RequestID: middleware.GetReqID(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    ww.Status(),
				Duration:  time.Since(start),
				User:      "anonymous",
				IP:        getClientIP(r),
				HTMX:      r.Header.Get("HX-Request") == "true",
			}
			if entry.Status == 0 {
				entry.Status = http.StatusOK
			}
			if user, ok := GetUserFromContext(r.Context()); ok && user != nil {
				entry.User = user.Email
			}

			if cfg.IsProduction() {
				fmt.Println(entry.jsonLine())
			} else {
				fmt.Println(entry.colorLine())
			}
		})
	}
}

type requestLog struct {
	RequestID string
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
	User      string
	IP        string
	HTMX      bool
}

// jsonLine 生产环境日志格式
func (l requestLog) jsonLine() string {
	return fmt.Sprintf(`{"time":%s,"request_id":%s,"method":%s,"path":%s,"status":%d,"duration":%s,"user":%s,"ip":%s,"htmx":%t}`,
		strconv.Quote(time.Now().Format(time.RFC3339)),
		strconv.Quote(l.RequestID),
		strconv.Quote(l.Method),
		strconv.Quote(l.Path),
		l.Status,
		strconv.Quote(l.Duration.String()),
		strconv.Quote(l.User),
		strconv.Quote(l.IP),
		l.HTMX,
	)
}

// colorLine 开发环境日志格式
func (l requestLog) colorLine() string {
	marker := ""
	if l.HTMX {
		marker = " ⚡"
	}
	return fmt.Sprintf("%s %s %s%s\033[0m %s%d\033[0m %s %s %s [%s]%s",
		time.Now().Format("15:04:05"),
		getMethodColor(l.Method)+l.Method+"\033[0m",
		"\033[36m", // 青色
		l.Path,
		getStatusColor(l.Status),
		l.Status,
		l.Duration,
		l.User,
		l.IP,
		l.RequestID,
		marker,
	)
}

// getClientIP 获取客户端IP地址
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// getStatusColor 根据HTTP状态码返回颜色代码
func getStatusColor(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "\033[32m" // 绿色
	case status >= 300 && status < 400:
		return "\033[33m" // 黄色
	case status >= 400 && status < 500:
		return "\033[31m" // 红色
	case status >= 500:
		return "\033[35m" // 紫色
	default:
		return "\033[0m"
	}
}

// getMethodColor 根据HTTP方法返回颜色代码
func getMethodColor(method string) string {
	switch method {
	case http.MethodGet:
		return "\033[34m"
	case http.MethodPost:
		return "\033[32m"
	case http.MethodOptions:
		return "\033[37m"
	default:
		return "\033[0m"
	}
}
