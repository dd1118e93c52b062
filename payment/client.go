package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.mollie.com/v2"

// Client parle à l'API du payment provider (customers, payments, subscriptions).
type Client struct {
	APIKey  string
	BaseURL string

	HTTPClient *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Amount is a provider-style amount: decimal string value plus ISO currency.
type Amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type PaymentStatus string

const (
	PaymentOpen     PaymentStatus = "open"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentCanceled PaymentStatus = "canceled"
	PaymentExpired  PaymentStatus = "expired"
)

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCanceled  SubscriptionStatus = "canceled"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCompleted SubscriptionStatus = "completed"
)

type SequenceType string

const (
	SequenceOneOff    SequenceType = "oneoff"
	SequenceFirst     SequenceType = "first"
	SequenceRecurring SequenceType = "recurring"
)

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Link struct {
	Href string `json:"href"`
	Type string `json:"type"`
}

type PaymentLinks struct {
	Checkout *Link `json:"checkout"`
}

type Payment struct {
	ID           string        `json:"id"`
	Status       PaymentStatus `json:"status"`
	Description  string        `json:"description"`
	Amount       Amount        `json:"amount"`
	CustomerID   string        `json:"customerId"`
	SequenceType SequenceType  `json:"sequenceType"`
	Links        PaymentLinks  `json:"_links"`
}

// CheckoutURL returns the hosted checkout page for this payment, empty when
// the provider did not include one (recurring payments have no checkout).
func (p *Payment) CheckoutURL() string {
	if p.Links.Checkout == nil {
		return ""
	}
	return p.Links.Checkout.Href
}

type CreatePayment struct {
	Amount       Amount       `json:"amount"`
	Description  string       `json:"description"`
	RedirectURL  string       `json:"redirectUrl,omitempty"`
	WebhookURL   string       `json:"webhookUrl,omitempty"`
	CustomerID   string       `json:"customerId,omitempty"`
	SequenceType SequenceType `json:"sequenceType,omitempty"`
}

type Subscription struct {
	ID          string             `json:"id"`
	Status      SubscriptionStatus `json:"status"`
	Amount      Amount             `json:"amount"`
	Times       int                `json:"times"`
	Interval    string             `json:"interval"`
	StartDate   string             `json:"startDate"`
	Description string             `json:"description"`
}

type CreateSubscription struct {
	Amount      Amount `json:"amount"`
	Times       int    `json:"times,omitempty"`
	Interval    string `json:"interval"`
	StartDate   string `json:"startDate,omitempty"`
	Description string `json:"description"`
	WebhookURL  string `json:"webhookUrl,omitempty"`
}

// APIError is the provider's problem body for non-2xx responses. Status is
// always filled, from the body when present, else from the HTTP response.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("payment api error %d (%s): %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("payment api error %d: %s", e.Status, e.Detail)
}

func (c *Client) CreateCustomer(ctx context.Context, name, email string) (*Customer, error) {
	body := map[string]string{
		"name":  name,
		"email": email,
	}
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/customers", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("payment id is required")
	}
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePayment(ctx context.Context, p CreatePayment) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/payments", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSubscription(ctx context.Context, customerID string, s CreateSubscription) (*Subscription, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("customer id is required")
	}
	var out Subscription
	path := "/customers/" + url.PathEscape(customerID) + "/subscriptions"
	if err := c.do(ctx, http.MethodPost, path, s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
			apiErr.Detail = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("error decoding response: %v", err)
		}
	}
	return nil
}
