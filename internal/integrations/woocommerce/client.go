package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shopfloor/pkg/models"
)

const (
	apiPath       = "/wp-json/wc/v3"
	ordersPerPage = "100"
)

var ErrRemote = errors.New("woocommerce request failed")

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) GetOrders(ctx context.Context, creds models.WooCredentials) ([]Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, creds, "/orders?per_page="+ordersPerPage, nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := c.do(req, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// CompleteOrder moves a remote order to the completed status.
func (c *Client) CompleteOrder(ctx context.Context, creds models.WooCredentials, orderID int) (*Order, error) {
	body, err := json.Marshal(map[string]string{"status": "completed"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order status: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, creds, fmt.Sprintf("/orders/%d", orderID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var order Order
	if err := c.do(req, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (c *Client) newRequest(ctx context.Context, method string, creds models.WooCredentials, path string, body io.Reader) (*http.Request, error) {
	url := strings.TrimRight(creds.StoreURL, "/") + apiPath + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(creds.ConsumerKey, creds.ConsumerSecret)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var remote struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&remote)
		if remote.Message != "" {
			return fmt.Errorf("%w: store returned %s: %s", ErrRemote, resp.Status, remote.Message)
		}
		return fmt.Errorf("%w: store returned %s", ErrRemote, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body: %v", ErrRemote, err)
	}

	return nil
}
