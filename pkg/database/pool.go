package database

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// DatabasePool 进程级数据库实例缓存
type DatabasePool struct {
	instance DatabaseInterface
	config   DatabaseConfig
	mu       sync.RWMutex
	lastUsed time.Time
}

var (
	globalPool *DatabasePool
	poolMutex  sync.Mutex
)

// idleTTL 空闲多久后重建连接；无服务器环境下更短
func idleTTL() time.Duration {
	if IsServerlessEnvironment() {
		return 10 * time.Minute
	}
	return 30 * time.Minute
}

// GetDatabase 获取数据库连接（单例模式 + 连接池）
func GetDatabase(ctx context.Context, config DatabaseConfig) (DatabaseInterface, error) {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	if globalPool != nil && !shouldRecreateConnection(ctx, globalPool, config) {
		globalPool.mu.Lock()
		globalPool.lastUsed = time.Now()
		globalPool.mu.Unlock()
		return globalPool.instance, nil
	}

	fmt.Printf("🔄 Creating new database connection pool\n")

	// 关闭旧连接（如果存在）
	if globalPool != nil && globalPool.instance != nil {
		globalPool.instance.Close()
		globalPool = nil
	}

	instance, err := NewDatabase(config)
	if err != nil {
		return nil, err
	}
	if err := instance.Migrate(ctx); err != nil {
		instance.Close()
		return nil, err
	}

	globalPool = &DatabasePool{
		instance: instance,
		config:   config,
		lastUsed: time.Now(),
	}
	return instance, nil
}

// shouldRecreateConnection 判断是否需要重新创建连接
func shouldRecreateConnection(ctx context.Context, pool *DatabasePool, newConfig DatabaseConfig) bool {
	if pool == nil || pool.instance == nil {
		return true
	}

	if pool.config != newConfig {
		fmt.Printf("🔄 Database configuration changed, recreating connection\n")
		return true
	}

	pool.mu.RLock()
	expired := time.Since(pool.lastUsed) > idleTTL()
	pool.mu.RUnlock()
	if expired {
		fmt.Printf("⏰ Database connection expired, recreating\n")
		return true
	}

	if err := pool.instance.HealthCheck(ctx); err != nil {
		fmt.Printf("❌ Database health check failed, recreating: %v\n", err)
		return true
	}

	return false
}

// CloseDatabase 关闭并清空缓存的数据库实例
func CloseDatabase() error {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	if globalPool == nil || globalPool.instance == nil {
		globalPool = nil
		return nil
	}
	err := globalPool.instance.Close()
	globalPool = nil
	return err
}

// GetConnectionStats 获取连接池统计信息
func GetConnectionStats() map[string]interface{} {
	poolMutex.Lock()
	defer poolMutex.Unlock()

	if globalPool == nil {
		return map[string]interface{}{
			"status":    "no_connection",
			"last_used": nil,
		}
	}

	globalPool.mu.RLock()
	lastUsed := globalPool.lastUsed
	globalPool.mu.RUnlock()

	return map[string]interface{}{
		"status":     "connected",
		"last_used":  lastUsed.Format(time.RFC3339),
		"age":        time.Since(lastUsed).String(),
		"serverless": IsServerlessEnvironment(),
		"config": map[string]interface{}{
			"driver":       globalPool.config.Driver,
			"has_postgres": globalPool.config.PostgresDSN != "",
			"sqlite_path":  globalPool.config.SQLitePath,
		},
	}
}

// IsServerlessEnvironment 检查是否运行在 Vercel / Lambda 等无服务器环境
func IsServerlessEnvironment() bool {
	return os.Getenv("VERCEL_ENV") != "" ||
		os.Getenv("VERCEL_URL") != "" ||
		os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}
