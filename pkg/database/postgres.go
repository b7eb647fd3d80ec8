package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"invoice-dashboard/pkg/models"

	_ "github.com/lib/pq"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id        VARCHAR(64) PRIMARY KEY,
		name      VARCHAR(255) NOT NULL,
		email     VARCHAR(255) NOT NULL,
		image_url VARCHAR(255) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id          VARCHAR(64) PRIMARY KEY,
		customer_id VARCHAR(64) NOT NULL REFERENCES customers(id),
		amount      BIGINT NOT NULL,
		status      VARCHAR(32) NOT NULL,
		date        DATE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices(date)`,
}

// PostgresDatabase PostgreSQL数据库实现
type PostgresDatabase struct {
	db *sql.DB
}

// NewPostgresDatabase 创建PostgreSQL数据库实例
func NewPostgresDatabase(dsn string) (*PostgresDatabase, error) {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	// 依次尝试多种连接参数，兼容不同托管环境
	strategies := []string{
		dsn,
		addConnectionParams(dsn, "connect_timeout=10"),
		addConnectionParams(dsn, "sslmode=require&connect_timeout=10"),
	}

	var lastErr error
	for i, strategy := range strategies {
		fmt.Printf("🔄 Trying connection strategy %d...\n", i+1)

		db, err := sql.Open("postgres", strategy)
		if err != nil {
			fmt.Printf("❌ Strategy %d failed to open: %v\n", i+1, err)
			lastErr = err
			continue
		}

		// 连接池参数
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err != nil {
			fmt.Printf("❌ Strategy %d failed to ping: %v\n", i+1, err)
			db.Close()
			lastErr = err
			continue
		}

		fmt.Printf("✅ PostgreSQL connection established successfully with strategy %d\n", i+1)
		return &PostgresDatabase{db: db}, nil
	}

	return nil, fmt.Errorf("failed to connect to PostgreSQL with all strategies: %w", lastErr)
}

// addConnectionParams 添加连接参数到DSN
func addConnectionParams(dsn, params string) string {
	if params == "" {
		return dsn
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}

	return dsn + separator + params
}

// Migrate 创建表结构
func (p *PostgresDatabase) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return nil
}

const postgresInvoiceColumns = `
	invoices.id, invoices.customer_id, customers.name, customers.email, customers.image_url,
	invoices.amount, invoices.date, invoices.status
	FROM invoices
	JOIN customers ON invoices.customer_id = customers.id`

const postgresSearchClause = `
	WHERE (customers.name ILIKE $1 ESCAPE '\' OR customers.email ILIKE $1 ESCAPE '\'
	       OR invoices.amount::text ILIKE $1 ESCAPE '\' OR invoices.date::text ILIKE $1 ESCAPE '\'
	       OR invoices.status ILIKE $1 ESCAPE '\')
	  AND ($2::text = '' OR invoices.status = $2::text)`

// FetchFilteredInvoices 按关键字和状态分页查询发票
func (p *PostgresDatabase) FetchFilteredInvoices(ctx context.Context, query, status string, page int) ([]models.InvoiceRow, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT`+postgresInvoiceColumns+postgresSearchClause+`
		ORDER BY invoices.date DESC, invoices.id
		LIMIT $3 OFFSET $4`,
		likePattern(query), status, ItemsPerPage, offsetForPage(page))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.InvoiceRow{}
	for rows.Next() {
		row, err := scanPostgresInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, nil
}

// FetchInvoicePages 计算匹配结果的总页数
func (p *PostgresDatabase) FetchInvoicePages(ctx context.Context, query, status string) (int, error) {
	var total int
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices JOIN customers ON invoices.customer_id = customers.id`+postgresSearchClause,
		likePattern(query), status).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return pageCount(total), nil
}

// GetInvoice 根据ID获取发票
func (p *PostgresDatabase) GetInvoice(ctx context.Context, id string) (*models.InvoiceRow, error) {
	row, err := scanPostgresInvoice(p.db.QueryRowContext(ctx,
		`SELECT`+postgresInvoiceColumns+` WHERE invoices.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateInvoiceStatus 更新发票状态
func (p *PostgresDatabase) UpdateInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	result, err := p.db.ExecContext(ctx, `UPDATE invoices SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if affected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// DeleteInvoice 删除发票
func (p *PostgresDatabase) DeleteInvoice(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if affected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// CreateCustomer 创建客户
func (p *PostgresDatabase) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, image_url) VALUES ($1, $2, $3, $4)`,
		customer.ID, customer.Name, customer.Email, customer.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// CreateInvoice 创建发票
func (p *PostgresDatabase) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if !invoice.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, invoice.Status)
	}
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.Date.IsZero() {
		invoice.Date = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1, $2, $3, $4, $5)`,
		invoice.ID, invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.Date)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// HealthCheck 健康检查
func (p *PostgresDatabase) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close 关闭连接
func (p *PostgresDatabase) Close() error {
	return p.db.Close()
}

func scanPostgresInvoice(scanner rowScanner) (*models.InvoiceRow, error) {
	var row models.InvoiceRow
	var status string
	err := scanner.Scan(&row.ID, &row.CustomerID, &row.Name, &row.Email, &row.ImageURL, &row.Amount, &row.Date, &status)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	row.Status = models.InvoiceStatus(status)
	return &row, nil
}
