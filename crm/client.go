package crm

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

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config décrit l'accès au record store: identity provider pour le token
// client-credentials, puis la collection et le mapping des champs.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string

	BaseURL       string
	Collection    string
	CustomerField string
	EmailField    string
	StatusField   string
}

// Client upserts a single record per external customer. Token acquisition and
// refresh are handled by the oauth2 transport.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	if strings.TrimSpace(cfg.Scope) != "" {
		cc.Scopes = []string{cfg.Scope}
	}

	base := &http.Client{Timeout: 15 * time.Second}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	return &Client{
		cfg:        cfg,
		httpClient: cc.Client(ctx),
	}
}

// APIError carries the record store's HTTP status and extracted message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record store error %d: %s", e.Status, e.Message)
}

// UpsertContact writes the customer identifier and email, used when a new
// provider customer is created.
func (c *Client) UpsertContact(ctx context.Context, customerID, email string) error {
	return c.upsert(ctx, customerID, map[string]interface{}{
		c.cfg.EmailField: email,
	})
}

// UpsertActivation writes the derived activation flag for a customer.
func (c *Client) UpsertActivation(ctx context.Context, customerID string, active bool) error {
	return c.upsert(ctx, customerID, map[string]interface{}{
		c.cfg.StatusField: active,
	})
}

// upsert performs a single create/update keyed on the configured customer
// field, Dataverse alternate-key style: PATCH /collection(field='id').
func (c *Client) upsert(ctx context.Context, customerID string, fields map[string]interface{}) error {
	if strings.TrimSpace(customerID) == "" {
		return fmt.Errorf("customer identifier is required")
	}

	target := fmt.Sprintf("%s/%s(%s='%s')",
		c.cfg.BaseURL, c.cfg.Collection, c.cfg.CustomerField, url.PathEscape(customerID))

	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("error encoding record: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, target, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-MaxVersion", "4.0")
	req.Header.Set("OData-Version", "4.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &APIError{
			Status:  resp.StatusCode,
			Message: extractMessage(raw),
		}
	}
	return nil
}

// extractMessage pulls the OData error message out of the body, falling back
// to the raw text.
func extractMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
