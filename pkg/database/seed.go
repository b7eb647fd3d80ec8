package database

import (
	"context"
	"fmt"
	"time"

	"invoice-dashboard/pkg/models"
)

type demoInvoice struct {
	customer int
	amount   int64
	status   models.InvoiceStatus
	date     string
}

var demoCustomers = []models.Customer{
	{Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
	{Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
	{Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	{Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
	{Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
	{Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
}

var demoInvoices = []demoInvoice{
	{customer: 0, amount: 15795, status: models.StatusPending, date: "2022-12-06"},
	{customer: 1, amount: 20348, status: models.StatusPending, date: "2022-11-14"},
	{customer: 4, amount: 3040, status: models.StatusPaid, date: "2022-10-29"},
	{customer: 3, amount: 44800, status: models.StatusPaid, date: "2023-09-10"},
	{customer: 5, amount: 34577, status: models.StatusOverdue, date: "2023-08-05"},
	{customer: 2, amount: 54246, status: models.StatusPending, date: "2023-07-16"},
	{customer: 0, amount: 666, status: models.StatusPending, date: "2023-06-27"},
	{customer: 3, amount: 32545, status: models.StatusPaid, date: "2023-06-09"},
	{customer: 4, amount: 1250, status: models.StatusOverdue, date: "2023-06-17"},
	{customer: 5, amount: 8546, status: models.StatusPaid, date: "2023-06-07"},
	{customer: 1, amount: 500, status: models.StatusPaid, date: "2023-08-19"},
	{customer: 5, amount: 8945, status: models.StatusPaid, date: "2023-06-03"},
	{customer: 2, amount: 1000, status: models.StatusPaid, date: "2022-06-05"},
}

// SeedDemoData 写入演示客户与发票，返回写入的发票数量
func SeedDemoData(ctx context.Context, db DatabaseInterface) (int, error) {
	customers := make([]models.Customer, len(demoCustomers))
	for i, c := range demoCustomers {
		customer := c
		if err := db.CreateCustomer(ctx, &customer); err != nil {
			return 0, err
		}
		customers[i] = customer
	}

	for i, d := range demoInvoices {
		date, err := time.Parse("2006-01-02", d.date)
		if err != nil {
			return i, fmt.Errorf("demo invoice %d: %w", i, err)
		}
		invoice := models.Invoice{
			CustomerID: customers[d.customer].ID,
			Amount:     d.amount,
			Status:     d.status,
			Date:       date,
		}
		if err := db.CreateInvoice(ctx, &invoice); err != nil {
			return i, err
		}
	}
	return len(demoInvoices), nil
}
