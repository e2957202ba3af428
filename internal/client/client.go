// Package client is a typed HTTP client for the recharge JSON API.
package client

import (
	"bytes"
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

	"github.com/tbourn/go-recharge-backend/internal/domain"
)

// APIError is a non-2xx response decoded from the server error envelope.
type APIError struct {
	StatusCode int
	RequestID  string `json:"request_id"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("recharge api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("recharge api: %s (%d %s)", e.Message, e.StatusCode, e.Code)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// UPILink is the deep-link payload for a payment.
type UPILink struct {
	UpiLink  string `json:"upiLink"`
	Amount   int    `json:"amount"`
	Operator string `json:"operator"`
}

// CreatePaymentRequest is the body of POST /payments.
type CreatePaymentRequest struct {
	PlanID        uint    `json:"planId"`
	Amount        int     `json:"amount"`
	MobileNumber  *string `json:"mobileNumber,omitempty"`
	TransactionID string  `json:"transactionId"`
}

// Client talks to one API base URL (including the base path, e.g.
// "http://localhost:8080/api"). It is safe for concurrent use.
type Client struct {
	base *url.URL
	hc   *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New parses baseURL and returns a Client with a 15s request timeout.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, hc: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Operators lists all operators.
func (c *Client) Operators(ctx context.Context) ([]domain.Operator, error) {
	var out []domain.Operator
	return out, c.do(ctx, http.MethodGet, "/operators", nil, &out)
}

// Operator fetches one operator by code.
func (c *Client) Operator(ctx context.Context, code string) (*domain.Operator, error) {
	var out domain.Operator
	if err := c.do(ctx, http.MethodGet, "/operators/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Plans lists every plan.
func (c *Client) Plans(ctx context.Context) ([]domain.RechargePlan, error) {
	var out []domain.RechargePlan
	return out, c.do(ctx, http.MethodGet, "/plans", nil, &out)
}

// PlansByOperator lists the active plans of one operator.
func (c *Client) PlansByOperator(ctx context.Context, operatorID uint) ([]domain.RechargePlan, error) {
	var out []domain.RechargePlan
	return out, c.do(ctx, http.MethodGet, "/plans/operator/"+strconv.FormatUint(uint64(operatorID), 10), nil, &out)
}

// Plan fetches one plan.
func (c *Client) Plan(ctx context.Context, id uint) (*domain.RechargePlan, error) {
	var out domain.RechargePlan
	if err := c.do(ctx, http.MethodGet, "/plans/"+strconv.FormatUint(uint64(id), 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment registers a pending payment.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.Payment, error) {
	var out domain.Payment
	if err := c.do(ctx, http.MethodPost, "/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Payment fetches a payment by transaction id.
func (c *Client) Payment(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var out domain.Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(transactionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePaymentStatus sets the status of a payment.
func (c *Client) UpdatePaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error) {
	var out domain.Payment
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPatch, "/payments/"+url.PathEscape(transactionID)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UPILink asks the server for the payment's deep link.
func (c *Client) UPILink(ctx context.Context, transactionID string) (*UPILink, error) {
	var out UPILink
	if err := c.do(ctx, http.MethodPost, "/payments/"+url.PathEscape(transactionID)+"/upi-link", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
		if apiErr.RequestID == "" {
			apiErr.RequestID = resp.Header.Get("X-Request-ID")
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
