package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// OrderResponse — заказ из API.
type OrderResponse struct {
	ID              string `json:"id"`
	ServiceType     string `json:"service_type"`
	Link            string `json:"link"`
	ChatType        string `json:"chat_type,omitempty"`
	Quantity        int    `json:"quantity"`
	StartCount      int    `json:"start_count"`
	Delivered       int    `json:"delivered"`
	Remains         int    `json:"remains"`
	Status          string `json:"status"`
	ProviderOrderID string `json:"provider_order_id,omitempty"`
	LastError       string `json:"last_error,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// TaskResponse — задача из API.
type TaskResponse struct {
	ID             string         `json:"id"`
	OrderID        string         `json:"order_id"`
	Action         string         `json:"action"`
	Payload        map[string]any `json:"payload,omitempty"`
	Status         string         `json:"status"`
	Attempt        int            `json:"attempt"`
	LeaseExpiresAt string         `json:"lease_expires_at,omitempty"`
}

// AccountResponse — аккаунт из API.
type AccountResponse struct {
	ID                string `json:"id"`
	ProviderAccountID string `json:"provider_account_id"`
	Phone             string `json:"phone"`
	IsActive          bool   `json:"is_active"`
	CreatedAt         string `json:"created_at"`
}

// --- Request types ---

// CreateOrderRequest — создание заказа.
type CreateOrderRequest struct {
	ServiceType     string `json:"service_type"`
	Link            string `json:"link"`
	ChatType        string `json:"chat_type,omitempty"`
	Quantity        int    `json:"quantity"`
	StartCount      int    `json:"start_count,omitempty"`
	ProviderOrderID string `json:"provider_order_id,omitempty"`
}

// ListOrdersOpts — параметры фильтрации заказов.
type ListOrdersOpts struct {
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Gramflow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Orders ---

// ListOrders возвращает заказы с фильтрацией.
func (c *Client) ListOrders(opts ListOrdersOpts) ([]OrderResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var orders []OrderResponse
	err := c.list("/api/v1/orders", params, &orders)
	return orders, err
}

// CreateOrder создаёт новый заказ.
func (c *Client) CreateOrder(req CreateOrderRequest) (*OrderResponse, error) {
	var order OrderResponse
	err := c.post("/api/v1/orders", req, &order)
	return &order, err
}

// GetOrder возвращает заказ по ID.
func (c *Client) GetOrder(id string) (*OrderResponse, error) {
	var order OrderResponse
	err := c.get("/api/v1/orders/"+id, &order)
	return &order, err
}

// CancelOrder отменяет заказ.
func (c *Client) CancelOrder(id string) (*OrderResponse, error) {
	var order OrderResponse
	err := c.post("/api/v1/orders/"+id+"/cancel", nil, &order)
	return &order, err
}

// ListOrderTasks возвращает задачи заказа.
func (c *Client) ListOrderTasks(orderID string) ([]TaskResponse, error) {
	var tasks []TaskResponse
	err := c.list("/api/v1/orders/"+orderID+"/tasks", nil, &tasks)
	return tasks, err
}

// --- Accounts ---

// ListAccounts возвращает аккаунты.
func (c *Client) ListAccounts(limit int) ([]AccountResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var accounts []AccountResponse
	err := c.list("/api/v1/accounts", params, &accounts)
	return accounts, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
