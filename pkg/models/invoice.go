package models

import (
	"fmt"
	"strings"
	"time"
)

// InvoiceStatus is the lifecycle label an invoice can be moved to from the dashboard.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

// AllInvoiceStatuses returns the editable statuses in menu order.
func AllInvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{StatusPending, StatusPaid, StatusOverdue}
}

func (s InvoiceStatus) String() string { return string(s) }

// IsValid reports whether s is one of the editable statuses.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	default:
		return false
	}
}

// ParseInvoiceStatus 解析并校验状态值（去除首尾空白，大小写不敏感）
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	status := InvoiceStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid invoice status %q", value)
	}
	return status, nil
}

// Customer 客户信息
type Customer struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	ImageURL string `json:"image_url" db:"image_url"`
}

// Invoice 发票（金额以分为单位）
type Invoice struct {
	ID         string        `json:"id" db:"id"`
	CustomerID string        `json:"customer_id" db:"customer_id"`
	Amount     int64         `json:"amount" db:"amount"`
	Date       time.Time     `json:"date" db:"date"`
	Status     InvoiceStatus `json:"status" db:"status"`
}

// InvoiceRow is an invoice joined with its customer, as listed on the dashboard.
// Status holds whatever the store returned and may be outside the editable set.
type InvoiceRow struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	ImageURL   string        `json:"image_url"`
	Amount     int64         `json:"amount"`
	Date       time.Time     `json:"date"`
	Status     InvoiceStatus `json:"status"`
}
