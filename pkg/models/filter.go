package models

import "strings"

// FilterTab is a dashboard filter tab. It is deliberately distinct from
// InvoiceStatus: "closed" can be filtered on but is never a status target.
type FilterTab string

const (
	TabAll     FilterTab = "all"
	TabPaid    FilterTab = "paid"
	TabPending FilterTab = "pending"
	TabOverdue FilterTab = "overdue"
	TabClosed  FilterTab = "closed"
)

// TabOption 标签页展示信息
type TabOption struct {
	Label string
	Value FilterTab
}

var filterTabs = []TabOption{
	{Label: "All", Value: TabAll},
	{Label: "Paid", Value: TabPaid},
	{Label: "Pending", Value: TabPending},
	{Label: "Overdue", Value: TabOverdue},
	{Label: "Canceled", Value: TabClosed},
}

// FilterTabs returns the tabs in display order.
func FilterTabs() []TabOption {
	tabs := make([]TabOption, len(filterTabs))
	copy(tabs, filterTabs)
	return tabs
}

// ParseFilterTab returns the tab for value and whether it is known.
func ParseFilterTab(value string) (FilterTab, bool) {
	tab := FilterTab(strings.ToLower(strings.TrimSpace(value)))
	for _, opt := range filterTabs {
		if opt.Value == tab {
			return tab, true
		}
	}
	return "", false
}

// StatusFilter is the status value handed to the invoice query; "" means no filter.
func (t FilterTab) StatusFilter() string {
	if t == TabAll || t == "" {
		return ""
	}
	return string(t)
}
