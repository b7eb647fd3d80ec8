package database

import (
	"context"
	"fmt"
	"math"
	"strings"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/models"
)

// ItemsPerPage 每页发票数量
const ItemsPerPage = 6

// DatabaseInterface 定义发票数据访问接口
type DatabaseInterface interface {
	// FetchFilteredInvoices returns one page of invoices whose customer name,
	// email, amount, date or status contains query (case-insensitive).
	// status == "" disables the status filter. Pages start at 1.
	FetchFilteredInvoices(ctx context.Context, query, status string, page int) ([]models.InvoiceRow, error)
	// FetchInvoicePages returns the number of pages FetchFilteredInvoices can serve.
	FetchInvoicePages(ctx context.Context, query, status string) (int, error)
	GetInvoice(ctx context.Context, id string) (*models.InvoiceRow, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, id string) error

	// 数据初始化
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	Migrate(ctx context.Context) error

	// 健康检查
	HealthCheck(ctx context.Context) error

	// 关闭连接
	Close() error
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver      string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresDSN string
	Debug       bool
}

// FromAppConfig 从应用配置构造数据库配置
func FromAppConfig(cfg *config.Config) DatabaseConfig {
	return DatabaseConfig{
		Driver:      cfg.DatabaseDriver,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.PostgresDSN,
		Debug:       cfg.Debug,
	}
}

// NewDatabase 根据配置选择数据库实现
func NewDatabase(config DatabaseConfig) (DatabaseInterface, error) {
	switch strings.ToLower(config.Driver) {
	case "", "sqlite":
		fmt.Printf("🗄️  Using SQLite database (%s)\n", config.SQLitePath)
		db, err := NewSQLiteDatabase(config.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		fmt.Printf("🐘 Using PostgreSQL database\n")
		db, err := NewPostgresDatabase(config.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

// maxPage 超过后偏移量会溢出，统一视为越界的空页
const maxPage = math.MaxInt / ItemsPerPage

// offsetForPage 计算分页偏移量
func offsetForPage(page int) int {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return (page - 1) * ItemsPerPage
}

// pageCount 向上取整计算总页数
func pageCount(total int) int {
	return (total + ItemsPerPage - 1) / ItemsPerPage
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern 构造包含匹配模式，% 和 _ 按字面匹配（配合 ESCAPE '\'）
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
}
