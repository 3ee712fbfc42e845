package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/dto"
	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

// BillGateway is the set of remote billing-service operations this backend
// consumes. Persistence, PDF rendering and bill email delivery all live on
// the other side of this interface.
type BillGateway interface {
	ListBills(ctx context.Context, filter dto.BillFilter) (*dto.BillListResponse, error)
	GetFilters(ctx context.Context) (*dto.FiltersResponse, error)
	GetBill(ctx context.Context, id int) (*model.Bill, error)
	CreateBill(ctx context.Context, payload dto.BillPayload) (*model.Bill, error)
	UpdateBill(ctx context.Context, id int, payload dto.BillPayload) (*model.Bill, error)
	DeleteBill(ctx context.Context, id int) error
	RefundBill(ctx context.Context, id int, amount decimal.Decimal, reason string) (*model.Bill, error)
	SendBillEmail(ctx context.Context, id int) error
	RenderBillPdf(ctx context.Context, id int) ([]byte, error)
}

// Error carries the remote service's error detail so handlers can surface it
// to the user instead of a generic fallback.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("billing service returned %d", e.StatusCode)
}

// Client is the HTTP implementation of BillGateway. It authenticates with a
// static service token; user-level permissions are enforced upstream.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ BillGateway = (*Client)(nil)

func (c *Client) ListBills(ctx context.Context, filter dto.BillFilter) (*dto.BillListResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(filter.Page))
	q.Set("size", strconv.Itoa(filter.Limit))
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Status != nil {
		q.Set("status", strconv.Itoa(*filter.Status))
	}
	if filter.Type != nil {
		q.Set("type", strconv.Itoa(*filter.Type))
	}
	if filter.CustomerID != nil {
		q.Set("customerId", strconv.Itoa(*filter.CustomerID))
	}

	var out dto.BillListResponse
	if err := c.do(ctx, http.MethodGet, "/bills?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetFilters(ctx context.Context) (*dto.FiltersResponse, error) {
	var out dto.FiltersResponse
	if err := c.do(ctx, http.MethodGet, "/bills/filters", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBill(ctx context.Context, id int) (*model.Bill, error) {
	var out model.Bill
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bills/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBill(ctx context.Context, payload dto.BillPayload) (*model.Bill, error) {
	var out model.Bill
	if err := c.do(ctx, http.MethodPost, "/bills", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBill(ctx context.Context, id int, payload dto.BillPayload) (*model.Bill, error) {
	var out model.Bill
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/bills/%d", id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBill(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bills/%d", id), nil, nil)
}

func (c *Client) RefundBill(ctx context.Context, id int, amount decimal.Decimal, reason string) (*model.Bill, error) {
	body := map[string]interface{}{
		"amount": amount,
		"reason": reason,
	}
	var out model.Bill
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/bills/%d/refund", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendBillEmail(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/bills/%d/email", id), nil, nil)
}

func (c *Client) RenderBillPdf(ctx context.Context, id int) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/bills/%d/pdf", id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: billing service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}
	return io.ReadAll(resp.Body)
}

// do issues one JSON round trip. A non-2xx response becomes a *Error carrying
// whatever detail the remote body had.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: billing service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: marshal payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("gateway: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// remoteError extracts the error detail from a non-2xx body. The billing
// service answers with either {"detail": …} or {"message": …}.
func remoteError(resp *http.Response) error {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	detail := body.Detail
	if detail == "" {
		detail = body.Message
	}
	return &Error{StatusCode: resp.StatusCode, Detail: detail}
}
