// Package whatsapp is a thin client for the Evolution-style messaging
// gateway. Credentials are per tenant (base URL + API key on the tenants
// row).
package whatsapp

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

	"github.com/wisewolf/educore-backend/internal/models"
	"github.com/wisewolf/educore-backend/internal/observability"
)

var ErrNotConfigured = errors.New("tenant has no whatsapp gateway credentials")

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ForTenant builds a client from the tenant's stored credentials.
func ForTenant(t *models.Tenant) (*Client, error) {
	if t.WhatsAppBaseURL == nil || t.WhatsAppAPIKey == nil || *t.WhatsAppBaseURL == "" {
		return nil, ErrNotConfigured
	}
	return NewClient(*t.WhatsAppBaseURL, *t.WhatsAppAPIKey), nil
}

// System errors (5xx, 429, timeouts) go to Sentry; gateway validation
// responses don't.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "http 5") || strings.Contains(s, "429") || strings.Contains(s, "timeout") ||
		strings.Contains(s, "deadline exceeded")
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.CaptureErr(err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		err := fmt.Errorf("%s %s: http %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
		if isSystemErr(err) {
			observability.CaptureErr(err)
		}
		return err
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func (c *Client) CreateInstance(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/instance/create", map[string]any{
		"instanceName": name,
		"qrcode":       true,
	}, nil)
}

// Connect returns the pairing QR code as a base64 PNG.
func (c *Client) Connect(ctx context.Context, name string) (string, error) {
	var out struct {
		Base64 string `json:"base64"`
		Code   string `json:"code"`
	}
	if err := c.do(ctx, http.MethodGet, "/instance/connect/"+name, nil, &out); err != nil {
		return "", err
	}
	return out.Base64, nil
}

// ConnectionState maps the gateway state to our instance status strings.
func (c *Client) ConnectionState(ctx context.Context, name string) (string, error) {
	var out struct {
		Instance struct {
			State string `json:"state"`
		} `json:"instance"`
	}
	if err := c.do(ctx, http.MethodGet, "/instance/connectionState/"+name, nil, &out); err != nil {
		return "", err
	}
	switch out.Instance.State {
	case "open":
		return models.InstanceConnected, nil
	case "connecting":
		return "connecting", nil
	default:
		return "disconnected", nil
	}
}

func (c *Client) Logout(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/instance/logout/"+name, nil, nil)
}

func (c *Client) DeleteInstance(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/instance/delete/"+name, nil, nil)
}

// SendText sends a plain text message to a phone number in international
// format.
func (c *Client) SendText(ctx context.Context, name, number, text string) error {
	return c.do(ctx, http.MethodPost, "/message/sendText/"+name, map[string]any{
		"number": number,
		"text":   text,
	}, nil)
}
