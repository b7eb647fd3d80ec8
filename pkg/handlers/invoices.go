package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/database"
	"invoice-dashboard/pkg/export"
	"invoice-dashboard/pkg/htmx"
	"invoice-dashboard/pkg/invoicestatus"
	"invoice-dashboard/pkg/models"
	"invoice-dashboard/pkg/preferences"
	"invoice-dashboard/pkg/utils"
	"invoice-dashboard/pkg/views"
)

// InvoiceIDParam is the chi URL parameter holding the invoice id.
const InvoiceIDParam = "invoiceId"

// InvoiceHandler 发票看板处理器
type InvoiceHandler struct {
	config *config.Config
	db     database.DatabaseInterface
	now    func() time.Time
}

// NewInvoiceHandler 创建发票处理器
func NewInvoiceHandler(cfg *config.Config, db database.DatabaseInterface) *InvoiceHandler {
	return &InvoiceHandler{
		config: cfg,
		db:     db,
		now:    time.Now,
	}
}

// ListPage 发票列表页（HTMX 请求只返回 <main> 片段）
func (h *InvoiceHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	tab, persist := preferences.ResolveFilter(r)
	if persist {
		preferences.SetActiveFilter(w, tab)
	}

	query := utils.GetQueryParam(r, "query", "")
	page := utils.GetPageParam(r)

	rows, totalPages, err := h.fetchPage(r, query, tab.StatusFilter(), page)
	if err != nil {
		fmt.Printf("❌ Failed to load invoices: %v\n", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to load invoices")
		return
	}

	data := views.InvoicesData{
		Query:      query,
		ActiveTab:  tab,
		Page:       page,
		TotalPages: totalPages,
		Invoices:   rows,
	}
	htmx.RenderPage(w, r, views.InvoicesContent(data), views.InvoicesPage(data))
}

// SetTab 显式设置当前筛选标签（表单 tab=），写入 cookie 后跳回列表
func (h *InvoiceHandler) SetTab(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid form body")
		return
	}
	tab, ok := models.ParseFilterTab(r.PostForm.Get(preferences.TabParam))
	if !ok {
		utils.WriteBadRequestResponse(w, "Invalid tab")
		return
	}
	preferences.SetActiveFilter(w, tab)
	http.Redirect(w, r, views.InvoicesPath, http.StatusSeeOther)
}

// StatusFragment 单行状态选择器片段，open=1 时展开菜单
func (h *InvoiceHandler) StatusFragment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, InvoiceIDParam)
	invoice, err := h.db.GetInvoice(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "Failed to load invoice")
		return
	}

	open := r.URL.Query().Get("open") == "1"
	view := invoicestatus.BuildView(invoice.Status, open, false)
	htmx.RenderPage(w, r, views.StatusSelector(invoice.ID, view), nil)
}

// EditPage 发票编辑页（表单提交到同一路径的 POST）
func (h *InvoiceHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.db.GetInvoice(r.Context(), chi.URLParam(r, InvoiceIDParam))
	if err != nil {
		h.writeStoreError(w, err, "Failed to load invoice")
		return
	}
	htmx.RenderPage(w, r, views.EditInvoiceForm(*invoice), views.EditInvoicePage(*invoice))
}

// EditStatus 修改发票状态（表单 status=）
// 400 非法状态，404 发票不存在，500 存储失败
// HTMX 页面对任何非2xx响应统一弹出提示并收起菜单
func (h *InvoiceHandler) EditStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, InvoiceIDParam)

	if err := r.ParseForm(); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid form body")
		return
	}
	status, err := models.ParseInvoiceStatus(r.PostForm.Get("status"))
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	if err := h.db.UpdateInvoiceStatus(r.Context(), id, status); err != nil {
		fmt.Printf("❌ Failed to update invoice %s to %s: %v\n", id, status, err)
		h.writeStoreError(w, err, "Failed to update invoice status")
		return
	}

	fmt.Printf("✅ Invoice %s status updated to %s\n", id, status)
	switch {
	case htmx.IsHTMXRequest(r):
		htmx.RenderPage(w, r, views.StatusSelector(id, invoicestatus.BuildView(status, false, false)), nil)
	case htmx.AcceptsHTML(r):
		// 编辑页的普通表单提交
		http.Redirect(w, r, views.InvoicesPath, http.StatusSeeOther)
	default:
		utils.WriteSuccessResponse(w, map[string]interface{}{
			"id":     id,
			"status": status,
		})
	}
}

// DeleteInvoice 删除发票
// HTMX 请求返回空片段替换整行，并通知列表刷新分页
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, InvoiceIDParam)
	if err := h.db.DeleteInvoice(r.Context(), id); err != nil {
		fmt.Printf("❌ Failed to delete invoice %s: %v\n", id, err)
		h.writeStoreError(w, err, views.DeleteFailureMessage)
		return
	}

	fmt.Printf("🗑️  Invoice %s deleted\n", id)
	switch {
	case htmx.IsHTMXRequest(r):
		htmx.Trigger(w, views.InvoicesChangedEvent, nil)
		w.WriteHeader(http.StatusOK)
	case htmx.AcceptsHTML(r):
		http.Redirect(w, r, views.InvoicesPath, http.StatusSeeOther)
	default:
		utils.WriteSuccessResponse(w, map[string]interface{}{
			"id":      id,
			"deleted": true,
		})
	}
}

// DownloadPDF 导出发票PDF
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, InvoiceIDParam)
	invoice, err := h.db.GetInvoice(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "Failed to load invoice")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteInvoicePDF(&buf, *invoice, h.now()); err != nil {
		fmt.Printf("❌ %v\n", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to render invoice PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(invoice.ID)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// APIListInvoices 分页JSON列表：?query=&status=&page=
func (h *InvoiceHandler) APIListInvoices(w http.ResponseWriter, r *http.Request) {
	tab := models.TabAll
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := models.ParseFilterTab(raw)
		if !ok {
			utils.WriteBadRequestResponse(w, "Invalid status filter")
			return
		}
		tab = parsed
	}

	query := utils.GetQueryParam(r, "query", "")
	page := utils.GetPageParam(r)
	rows, totalPages, err := h.fetchPage(r, query, tab.StatusFilter(), page)
	if err != nil {
		fmt.Printf("❌ Failed to list invoices: %v\n", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to list invoices")
		return
	}
	if rows == nil {
		rows = []models.InvoiceRow{}
	}
	utils.WritePaginatedResponse(w, rows, page, database.ItemsPerPage, totalPages)
}

// APIGetInvoice 单个发票JSON
func (h *InvoiceHandler) APIGetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.db.GetInvoice(r.Context(), chi.URLParam(r, InvoiceIDParam))
	if err != nil {
		h.writeStoreError(w, err, "Failed to load invoice")
		return
	}
	utils.WriteSuccessResponse(w, invoice)
}

func (h *InvoiceHandler) fetchPage(r *http.Request, query, status string, page int) ([]models.InvoiceRow, int, error) {
	rows, err := h.db.FetchFilteredInvoices(r.Context(), query, status, page)
	if err != nil {
		return nil, 0, err
	}
	totalPages, err := h.db.FetchInvoicePages(r.Context(), query, status)
	if err != nil {
		return nil, 0, err
	}
	return rows, totalPages, nil
}

// writeStoreError 将存储层错误映射为HTTP状态
func (h *InvoiceHandler) writeStoreError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, database.ErrInvoiceNotFound):
		utils.WriteNotFoundResponse(w, "Invoice not found")
	case errors.Is(err, database.ErrInvalidStatus):
		utils.WriteBadRequestResponse(w, "Invalid invoice status")
	default:
		details := ""
		if h.config != nil && h.config.IsDevelopment() {
			details = err.Error()
		}
		utils.WriteErrorResponseWithCode(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, details)
	}
}
