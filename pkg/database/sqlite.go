package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"invoice-dashboard/pkg/models"

	_ "modernc.org/sqlite"
)

const sqliteDateLayout = "2006-01-02"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		email     TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id          TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		amount      INTEGER NOT NULL,
		status      TEXT NOT NULL,
		date        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices(date)`,
}

// SQLiteDatabase 嵌入式SQLite实现（默认后端）
type SQLiteDatabase struct {
	db *sql.DB
}

// NewSQLiteDatabase opens (and creates if needed) the database at path.
// ":memory:" is accepted for ephemeral stores.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// 单连接：保证 :memory: 数据库在连接间共享，并串行化写入
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite %s: %w", pragma, err)
		}
	}

	return &SQLiteDatabase{db: db}, nil
}

// Migrate 创建表结构
func (s *SQLiteDatabase) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

const sqliteInvoiceColumns = `
	i.id, i.customer_id, c.name, c.email, c.image_url, i.amount, i.date, i.status
	FROM invoices i
	JOIN customers c ON i.customer_id = c.id`

const sqliteSearchClause = `
	WHERE (c.name LIKE ? ESCAPE '\' OR c.email LIKE ? ESCAPE '\' OR CAST(i.amount AS TEXT) LIKE ? ESCAPE '\'
	       OR i.date LIKE ? ESCAPE '\' OR i.status LIKE ? ESCAPE '\')
	  AND (? = '' OR i.status = ?)`

func sqliteSearchArgs(query, status string) []interface{} {
	pattern := likePattern(query)
	return []interface{}{pattern, pattern, pattern, pattern, pattern, status, status}
}

// FetchFilteredInvoices 按关键字和状态分页查询发票
func (s *SQLiteDatabase) FetchFilteredInvoices(ctx context.Context, query, status string, page int) ([]models.InvoiceRow, error) {
	args := append(sqliteSearchArgs(query, status), ItemsPerPage, offsetForPage(page))
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+sqliteInvoiceColumns+sqliteSearchClause+`
		ORDER BY i.date DESC, i.id
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.InvoiceRow{}
	for rows.Next() {
		row, err := scanSQLiteInvoice(rows)
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
func (s *SQLiteDatabase) FetchInvoicePages(ctx context.Context, query, status string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices i JOIN customers c ON i.customer_id = c.id`+sqliteSearchClause,
		sqliteSearchArgs(query, status)...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return pageCount(total), nil
}

// GetInvoice 根据ID获取发票
func (s *SQLiteDatabase) GetInvoice(ctx context.Context, id string) (*models.InvoiceRow, error) {
	row, err := scanSQLiteInvoice(s.db.QueryRowContext(ctx, `SELECT`+sqliteInvoiceColumns+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateInvoiceStatus 更新发票状态
func (s *SQLiteDatabase) UpdateInvoiceStatus(ctx context.Context, id string, status models.InvoiceStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	result, err := s.db.ExecContext(ctx, `UPDATE invoices SET status = ? WHERE id = ?`, string(status), id)
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
func (s *SQLiteDatabase) DeleteInvoice(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
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
func (s *SQLiteDatabase) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, image_url) VALUES (?, ?, ?, ?)`,
		customer.ID, customer.Name, customer.Email, customer.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// CreateInvoice 创建发票
func (s *SQLiteDatabase) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if !invoice.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, invoice.Status)
	}
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.Date.IsZero() {
		invoice.Date = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invoices (id, customer_id, amount, status, date) VALUES (?, ?, ?, ?, ?)`,
		invoice.ID, invoice.CustomerID, invoice.Amount, string(invoice.Status), invoice.Date.Format(sqliteDateLayout))
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// HealthCheck 健康检查
func (s *SQLiteDatabase) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 关闭连接
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteInvoice(scanner rowScanner) (*models.InvoiceRow, error) {
	var row models.InvoiceRow
	var date, status string
	err := scanner.Scan(&row.ID, &row.CustomerID, &row.Name, &row.Email, &row.ImageURL, &row.Amount, &date, &status)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	parsed, err := time.Parse(sqliteDateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invoice %s has malformed date %q: %w", row.ID, date, err)
	}
	row.Date = parsed
	row.Status = models.InvoiceStatus(status)
	return &row, nil
}
