package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gallerie/storefront/internal/apperr"
)

const defaultBaseURL = "https://api.paystack.co"

// Client talks to the payment gateway's transaction API. Amounts are
// in minor currency units throughout.
type Client struct {
	baseURL string
	secret  string
	httpc   *http.Client
	calls   *prometheus.CounterVec
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithMetrics counts gateway calls on the given counter, labelled by
// operation and result.
func WithMetrics(calls *prometheus.CounterVec) Option {
	return func(c *Client) { c.calls = calls }
}

func NewClient(secret string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		secret:  secret,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type InitializeInput struct {
	Email       string
	AmountMinor int64
	Currency    string
	Reference   string
}

type InitializeResult struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

type VerifyResult struct {
	Status      string     `json:"status"`
	Reference   string     `json:"reference"`
	AmountMinor int64      `json:"amountMinor"`
	Currency    string     `json:"currency,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
}

// envelope is the gateway's standard response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a transaction and returns the checkout handle the
// client completes payment with.
func (c *Client) Initialize(ctx context.Context, in InitializeInput) (InitializeResult, error) {
	if in.Email == "" {
		return InitializeResult{}, apperr.Validation("email is required")
	}
	if in.AmountMinor <= 0 {
		return InitializeResult{}, apperr.Validation("amount must be positive")
	}

	payload := map[string]any{
		"email":  in.Email,
		"amount": in.AmountMinor,
	}
	if in.Currency != "" {
		payload["currency"] = in.Currency
	}
	if in.Reference != "" {
		payload["reference"] = in.Reference
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}

	if err := c.call(ctx, "initialize", http.MethodPost, "/transaction/initialize", payload, &data); err != nil {
		return InitializeResult{}, err
	}

	return InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the authoritative state of a transaction.
func (c *Client) Verify(ctx context.Context, reference string) (VerifyResult, error) {
	if reference == "" {
		return VerifyResult{}, apperr.Validation("reference is required")
	}

	var data struct {
		Status    string     `json:"status"`
		Reference string     `json:"reference"`
		Amount    int64      `json:"amount"`
		Currency  string     `json:"currency"`
		PaidAt    *time.Time `json:"paid_at"`
	}

	path := "/transaction/verify/" + url.PathEscape(reference)

	if err := c.call(ctx, "verify", http.MethodGet, path, nil, &data); err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{
		Status:      data.Status,
		Reference:   data.Reference,
		AmountMinor: data.Amount,
		Currency:    data.Currency,
		PaidAt:      data.PaidAt,
	}, nil
}

func (c *Client) call(ctx context.Context, op, method, path string, payload any, out any) (err error) {
	if c.calls != nil {
		defer func() {
			result := "ok"
			if err != nil {
				result = "error"
			}
			c.calls.WithLabelValues(op, result).Inc()
		}()
	}

	var body *bytes.Reader

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.NotFound("transaction not found")
	}

	var env envelope

	if resp.StatusCode >= 400 {
		// error bodies are not guaranteed to be JSON; the status
		// code decides, the envelope message is a bonus
		msg := ""
		if json.NewDecoder(resp.Body).Decode(&env) == nil {
			msg = env.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("gateway returned %d", resp.StatusCode)
		}
		return apperr.New(apperr.KindInternal, "payment gateway: "+msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("payment gateway response: %w", err)
	}

	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return apperr.New(apperr.KindInternal, "payment gateway: "+msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("payment gateway data: %w", err)
		}
	}

	return nil
}
