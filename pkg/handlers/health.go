package handlers

import (
	"net/http"
	"time"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/database"
	"invoice-dashboard/pkg/utils"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	config *config.Config
	db     database.DatabaseInterface
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(cfg *config.Config, db database.DatabaseInterface) *HealthHandler {
	return &HealthHandler{config: cfg, db: db}
}

// HealthCheck 服务与数据库状态
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	if err := h.db.HealthCheck(r.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"service":     "invoice-dashboard",
		"version":     "1.0.0",
		"environment": h.config.Environment,
		"database":    h.config.DatabaseDriver,
		"db_status":   dbStatus,
		"timestamp":   time.Now().Unix(),
		"status":      "healthy",
	})
}

// PoolStats 数据库连接池状态（调试用）
func (h *HealthHandler) PoolStats(w http.ResponseWriter, r *http.Request) {
	stats := database.GetConnectionStats()
	stats["serverless"] = database.IsServerlessEnvironment()
	utils.WriteSuccessResponse(w, stats)
}
