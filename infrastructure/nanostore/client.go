package nanostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StatusError reports a non-2xx response from the order service.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order service returned %d for %s", e.Code, e.Path)
}

// Client talks to the remote order service (/nanostore/...). All requests
// carry the operator's bearer token and accept JSON.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// WithToken returns a copy of the client bound to an operator's auth token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ListOrders queries orders. A 404 means no matching orders and yields an
// empty slice; unparsable bodies also normalize to zero records.
func (c *Client) ListOrders(ctx context.Context, q OrderQuery) ([]Order, error) {
	params := url.Values{}
	if q.TrayID != "" {
		params.Set("tray_id", q.TrayID)
	}
	if q.TrayStatus != "" {
		params.Set("tray_status", q.TrayStatus)
	}
	if q.UserID != "" {
		params.Set("user_id", q.UserID)
	}
	if q.OrderByField != "" {
		params.Set("order_by_field", q.OrderByField)
		params.Set("order_by_type", orderByType(q.OrderByType))
	}
	if q.NumRecords > 0 {
		params.Set("num_records", strconv.Itoa(q.NumRecords))
	}

	body, err := c.do(ctx, http.MethodGet, "/nanostore/orders", params, nil)
	if err != nil {
		if isNotFound(err) {
			return []Order{}, nil
		}
		return nil, err
	}
	return decodeRecords[Order](body), nil
}

// CreateOrder creates an order for a tray/user pair with the chosen
// auto-complete time in minutes.
func (c *Client) CreateOrder(ctx context.Context, trayID, userID string, autoCompleteMinutes int) (Order, error) {
	params := url.Values{}
	params.Set("tray_id", trayID)
	params.Set("user_id", userID)
	params.Set("auto_complete_time", strconv.Itoa(autoCompleteMinutes))

	body, err := c.do(ctx, http.MethodPost, "/nanostore/orders", params, nil)
	if err != nil {
		return Order{}, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err == nil && order.ID != "" {
		return order, nil
	}
	if orders := decodeRecords[Order](body); len(orders) > 0 {
		return orders[0], nil
	}
	return Order{}, fmt.Errorf("create order: response carried no order id")
}

// TouchOrder sends the keep-alive PATCH on an order record. The server-side
// semantics are opaque; the only contract is that it precedes the scan
// transaction and that failure is non-fatal for the caller.
func (c *Client) TouchOrder(ctx context.Context, orderID string) error {
	params := url.Values{}
	params.Set("record_id", orderID)
	_, err := c.do(ctx, http.MethodPatch, "/nanostore/orders", params, strings.NewReader("{}"))
	return err
}

// CompleteOrder finalizes an order.
func (c *Client) CompleteOrder(ctx context.Context, orderID string) error {
	params := url.Values{}
	params.Set("record_id", orderID)
	_, err := c.do(ctx, http.MethodPatch, "/nanostore/orders/complete", params, nil)
	return err
}

// CreateTransaction records one item scan against an order.
func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) error {
	params := url.Values{}
	params.Set("order_id", in.OrderID)
	params.Set("item_id", in.ItemID)
	params.Set("transaction_item_quantity", strconv.Itoa(in.Quantity))
	params.Set("transaction_type", in.Type)
	params.Set("transaction_date", in.Date)
	_, err := c.do(ctx, http.MethodPost, "/nanostore/transaction", params, nil)
	return err
}

// ListTransactions fetches the authoritative transaction list.
func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) ([]Transaction, error) {
	params := url.Values{}
	if q.OrderID != "" {
		params.Set("order_id", q.OrderID)
	}
	if q.TransactionType != "" {
		params.Set("transaction_type", q.TransactionType)
	}
	if q.OrderByField != "" {
		params.Set("order_by_field", q.OrderByField)
		params.Set("order_by_type", orderByType(q.OrderByType))
	}
	if q.NumRecords > 0 {
		params.Set("num_records", strconv.Itoa(q.NumRecords))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	body, err := c.do(ctx, http.MethodGet, "/nanostore/transactions", params, nil)
	if err != nil {
		if isNotFound(err) {
			return []Transaction{}, nil
		}
		return nil, err
	}
	return decodeRecords[Transaction](body), nil
}

// DeleteTransaction removes a scan transaction.
func (c *Client) DeleteTransaction(ctx context.Context, transactionID string) error {
	params := url.Values{}
	params.Set("record_id", transactionID)
	_, err := c.do(ctx, http.MethodDelete, "/nanostore/transaction", params, nil)
	return err
}

// ListTrays lists the storage bins.
func (c *Client) ListTrays(ctx context.Context) ([]Tray, error) {
	params := url.Values{}
	params.Set("order_by_field", "updated_at")
	params.Set("order_by_type", "ASC")

	body, err := c.do(ctx, http.MethodGet, "/nanostore/trays", params, nil)
	if err != nil {
		if isNotFound(err) {
			return []Tray{}, nil
		}
		return nil, err
	}
	return decodeRecords[Tray](body), nil
}

// TrayItems lists the items currently stored in a tray.
func (c *Client) TrayItems(ctx context.Context, trayID string) ([]TrayItem, error) {
	params := url.Values{}
	params.Set("tray_id", trayID)
	params.Set("return_item", "true")
	params.Set("num_records", "100")
	params.Set("offset", "0")
	params.Set("order_flow", "fifo")

	body, err := c.do(ctx, http.MethodGet, "/nanostore/trays_for_order", params, nil)
	if err != nil {
		if isNotFound(err) {
			return []TrayItem{}, nil
		}
		return nil, err
	}
	return decodeRecords[TrayItem](body), nil
}

// CreateItem registers a new product in the item master.
func (c *Client) CreateItem(ctx context.Context, itemID, description string) error {
	params := url.Values{}
	params.Set("item_id", itemID)
	params.Set("item_description", description)
	_, err := c.do(ctx, http.MethodPost, "/nanostore/item", params, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("order service error", slog.String("path", path), slog.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}
	return data, nil
}

func isNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func orderByType(v string) string {
	if strings.EqualFold(v, "DESC") {
		return "DESC"
	}
	return "ASC"
}
