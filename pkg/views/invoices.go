package views

import (
	"net/url"
	"strconv"

	"invoice-dashboard/pkg/models"
)

// EmptyMessage is shown when the filtered list has no rows.
const EmptyMessage = "No invoices found for the selected status."

const (
	activeTabClass = "border-b-2 border-blue-600 font-medium text-blue-600"
	idleTabClass   = "text-gray-500 hover:text-gray-900"
)

// InvoicesData is everything the invoices page renders.
type InvoicesData struct {
	Query      string
	ActiveTab  models.FilterTab
	Page       int
	TotalPages int
	Invoices   []models.InvoiceRow
}

func (d InvoicesData) current() int {
	if d.Page < 1 {
		return 1
	}
	return d.Page
}

// PageURL links to page n of the current search. The tab comes from the cookie.
func PageURL(query string, page int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if query != "" {
		params.Set("query", query)
	}
	return InvoicesPath + "?" + params.Encode()
}

func tabURL(query string, tab models.FilterTab) string {
	params := url.Values{}
	params.Set("tab", string(tab))
	if query != "" {
		params.Set("query", query)
	}
	return InvoicesPath + "?" + params.Encode()
}

// PaginationItems lists the page numbers to show; 0 marks an ellipsis.
func PaginationItems(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if total <= 7 {
		items := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			items = append(items, i)
		}
		return items
	}
	if current <= 3 {
		return []int{1, 2, 3, 0, total - 1, total}
	}
	if current >= total-2 {
		return []int{1, 2, 0, total - 2, total - 1, total}
	}
	return []int{1, 0, current - 1, current, current + 1, 0, total}
}
