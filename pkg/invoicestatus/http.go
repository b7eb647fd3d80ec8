package invoicestatus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"invoice-dashboard/pkg/models"
	"invoice-dashboard/pkg/utils"
)

// DefaultTimeout bounds a single dashboard request.
const DefaultTimeout = 10 * time.Second

// HTTPClient talks to the dashboard server. It implements Mutator via the
// form endpoint and offers JSON reads for tooling.
type HTTPClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewHTTPClient returns a client with DefaultTimeout.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// EditURL is the mutation endpoint for an invoice.
func (c *HTTPClient) EditURL(invoiceID string) string {
	return c.BaseURL + "/dashboard/invoices/" + url.PathEscape(invoiceID) + "/edit"
}

// UpdateStatus posts status=<value> form-urlencoded to the edit endpoint.
// Any 2xx response is success; everything else is a *StatusError.
func (c *HTTPClient) UpdateStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error {
	form := url.Values{"status": {string(status)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.EditURL(invoiceID), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("send status request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// GetInvoice fetches one invoice from the JSON API.
func (c *HTTPClient) GetInvoice(ctx context.Context, invoiceID string) (*models.InvoiceRow, error) {
	var row models.InvoiceRow
	if _, err := c.getJSON(ctx, "/api/invoices/"+url.PathEscape(invoiceID), nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListInvoices fetches one page of invoices from the JSON API and the total page count.
func (c *HTTPClient) ListInvoices(ctx context.Context, query string, tab models.FilterTab, page int) ([]models.InvoiceRow, int, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if status := tab.StatusFilter(); status != "" {
		params.Set("status", status)
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	var rows []models.InvoiceRow
	meta, err := c.getJSON(ctx, "/api/invoices", params, &rows)
	if err != nil {
		return nil, 0, err
	}
	totalPages := 0
	if meta != nil {
		totalPages = meta.TotalPages
	}
	return rows, totalPages, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, v interface{}) (*utils.Meta, error) {
	endpoint := c.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	meta, err := utils.DecodeResponse(resp.Body, v)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	return meta, nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return client.Do(req)
}
