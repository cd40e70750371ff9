// Package sms relays text messages through an HTTP SMS gateway.
package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bernardokeke/fleetlease/internal/observability/metrics"
)

// Client talks to the gateway. The gateway expects a single GET with
// the api token, sender id and message in the query string.
type Client struct {
	BaseURL string
	APIKey  string
	Sender  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey, sender string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Sender:  sender,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NormalizeRecipient rewrites local numbers (leading 0) to the
// international 234 prefix the gateway requires. Anything else passes
// through untouched.
func NormalizeRecipient(to string) string {
	if strings.HasPrefix(to, "0") {
		return "234" + to[1:]
	}
	return to
}

// Send delivers one message. A non-2xx gateway response counts as a
// failure; the body is folded into the error for the logs.
func (c *Client) Send(ctx context.Context, to, body string) error {
	q := url.Values{}
	q.Set("api_token", c.APIKey)
	q.Set("from", c.Sender)
	q.Set("to", NormalizeRecipient(to))
	q.Set("body", body)
	q.Set("dnd", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		metrics.ObserveSMS("error")
		return fmt.Errorf("sms: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.ObserveSMS("error")
		return fmt.Errorf("sms: gateway call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		metrics.ObserveSMS("rejected")
		return fmt.Errorf("sms: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	metrics.ObserveSMS("sent")
	return nil
}
