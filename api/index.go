package handler

import (
	"fmt"
	"net/http"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/database"
	"invoice-dashboard/pkg/handlers"
	customMiddleware "invoice-dashboard/pkg/middleware"
	"invoice-dashboard/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxFormBytes 表单请求体上限
const maxFormBytes = 16 << 10

const formContentType = "application/x-www-form-urlencoded"

// Handler 是无服务器函数的入口点
// 所有端点集中在一个Chi路由器中管理
func Handler(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.GetCached()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Configuration error: "+err.Error())
		return
	}

	// 连接由连接池管理，无需手动关闭
	db, err := database.GetDatabase(r.Context(), database.FromAppConfig(cfg))
	if err != nil {
		fmt.Printf("❌ Database unavailable: %v\n", err)
		utils.WriteInternalServerErrorResponse(w, "Database unavailable")
		return
	}

	NewRouter(cfg, db).ServeHTTP(w, r)
}

// NewRouter 创建完整路由（长驻服务器与无服务器入口共用）
func NewRouter(cfg *config.Config, db database.DatabaseInterface) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, cfg)
	setupRoutes(router, cfg, db)
	return router
}

// setupMiddleware 设置全局中间件
func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	// Normalize path and restore scheme/host before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.Logger(cfg))
	router.Use(customMiddleware.Recovery(cfg))

	router.Use(middleware.Timeout(cfg.RequestTimeout))
	router.Use(middleware.Compress(5))

	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

// setupRoutes 设置所有路由
func setupRoutes(router *chi.Mux, cfg *config.Config, db database.DatabaseInterface) {
	healthHandler := handlers.NewHealthHandler(cfg, db)
	invoiceHandler := handlers.NewInvoiceHandler(cfg, db)
	formBody := chi.Chain(
		customMiddleware.RequireContentType(formContentType),
		customMiddleware.MaxBodySize(maxFormBytes),
	)

	// 404/405 须先注册，子路由挂载时继承
	// 404处理
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	// 405处理
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path), "")
	})

	// 健康检查端点
	router.Get("/", healthHandler.HealthCheck)

	// 数据库连接池状态端点（调试用）
	if cfg.IsDevelopment() {
		router.Get("/debug/db-pool", healthHandler.PoolStats)
	}

	// 发票看板（HTML + HTMX 片段）
	router.Route("/dashboard/invoices", func(r chi.Router) {
		r.Use(customMiddleware.AuthMiddleware(cfg))

		r.Get("/", invoiceHandler.ListPage)
		r.With(formBody...).Post("/tab", invoiceHandler.SetTab)

		r.Route("/{"+handlers.InvoiceIDParam+"}", func(r chi.Router) {
			r.Get("/status", invoiceHandler.StatusFragment)
			r.Get("/edit", invoiceHandler.EditPage)
			r.With(formBody...).Post("/edit", invoiceHandler.EditStatus)
			r.With(formBody...).Post("/delete", invoiceHandler.DeleteInvoice)
			r.Get("/pdf", invoiceHandler.DownloadPDF)
		})
	})

	// 只读JSON接口
	router.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.CORS(cfg))
		r.Use(customMiddleware.AuthMiddleware(cfg))

		r.Get("/invoices", invoiceHandler.APIListInvoices)
		r.Get("/invoices/{"+handlers.InvoiceIDParam+"}", invoiceHandler.APIGetInvoice)
	})
}
