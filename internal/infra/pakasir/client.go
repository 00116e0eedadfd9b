package pakasir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrVerification marks every failure to confirm a transaction with the gateway.
var ErrVerification = errors.New("gateway verification failed")

type Client struct {
	BaseURL    string
	Project    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL, project, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Project:    project,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Transaction is the gateway's authoritative view of an order.
type Transaction struct {
	Amount        int64  `json:"amount"`
	OrderID       string `json:"order_id"`
	Project       string `json:"project"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	CompletedAt   string `json:"completed_at"`
}

type transactionDetailResponse struct {
	Transaction *Transaction `json:"transaction"`
}

// TransactionDetail asks the gateway for the transaction identified by
// project, amount and order ID.
func (c *Client) TransactionDetail(ctx context.Context, project string, amount int64, orderID string) (Transaction, error) {
	q := url.Values{}
	q.Set("project", project)
	q.Set("amount", strconv.FormatInt(amount, 10))
	q.Set("order_id", orderID)
	q.Set("api_key", c.APIKey)

	endpoint := c.BaseURL + "/api/transactiondetail?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: build request: %v", ErrVerification, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		// url.Error would echo the api_key back through the query string.
		return Transaction{}, fmt.Errorf("%w: request to gateway failed", ErrVerification)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return Transaction{}, fmt.Errorf("%w: gateway returned HTTP %d", ErrVerification, res.StatusCode)
	}

	var body transactionDetailResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&body); err != nil {
		return Transaction{}, fmt.Errorf("%w: decode response: %v", ErrVerification, err)
	}
	if body.Transaction == nil {
		return Transaction{}, fmt.Errorf("%w: response has no transaction", ErrVerification)
	}

	tx := *body.Transaction
	if !KnownStatus(tx.Status) {
		return Transaction{}, fmt.Errorf("%w: unknown transaction status %q", ErrVerification, tx.Status)
	}
	return tx, nil
}

// PaymentURL is the gateway-hosted checkout page for an order.
func (c *Client) PaymentURL(amount int64, orderID, redirect string) string {
	q := url.Values{}
	q.Set("order_id", orderID)
	if redirect != "" {
		q.Set("redirect", redirect)
	}
	return fmt.Sprintf("%s/pay/%s/%d?%s", c.BaseURL, url.PathEscape(c.Project), amount, q.Encode())
}
