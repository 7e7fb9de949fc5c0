package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SendResult is the gateway's answer for one outbound message.
type SendResult struct {
	TextID         string `json:"textId"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	QuotaRemaining int    `json:"quotaRemaining"`
}

// Client is the opaque send capability consumed by the targeting engine
// and the webhook confirmation path.
type Client interface {
	Send(ctx context.Context, phoneNumber, text string) (*SendResult, error)
}

// TextBeltClient sends SMS through the TextBelt HTTP API. In test mode
// the API key is suffixed with "_test" and no real message goes out.
type TextBeltClient struct {
	baseURL    string
	apiKey     string
	testMode   bool
	webhookURL string
	client     *http.Client
}

func NewTextBeltClient(baseURL, apiKey string, testMode bool, replyWebhookURL string) *TextBeltClient {
	if baseURL == "" {
		baseURL = "https://textbelt.com/text"
	}
	return &TextBeltClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		testMode:   testMode,
		webhookURL: replyWebhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type textBeltResponse struct {
	Success        bool   `json:"success"`
	TextID         any    `json:"textId"` // the API returns either a string or a number
	Error          string `json:"error"`
	QuotaRemaining int    `json:"quotaRemaining"`
}

func (c *TextBeltClient) key() string {
	if c.testMode {
		return c.apiKey + "_test"
	}
	return c.apiKey
}

func (c *TextBeltClient) Send(ctx context.Context, phoneNumber, text string) (*SendResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("sms gateway: api key not configured")
	}

	form := url.Values{}
	form.Set("phone", phoneNumber)
	form.Set("message", text)
	form.Set("key", c.key())
	if c.webhookURL != "" && !c.testMode {
		form.Set("replyWebhookUrl", c.webhookURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sms gateway: unexpected status %d body=%q", resp.StatusCode, string(body))
	}

	var tr textBeltResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("sms gateway: failed to decode response: %w body=%q", err, string(body))
	}

	return &SendResult{
		TextID:         stringifyTextID(tr.TextID),
		Success:        tr.Success,
		Error:          tr.Error,
		QuotaRemaining: tr.QuotaRemaining,
	}, nil
}

// VerifyKey sends a probe message to the gateway's test number to
// confirm the configured key is accepted.
func (c *TextBeltClient) VerifyKey(ctx context.Context) (*SendResult, error) {
	return c.Send(ctx, "5555551234", "API key test")
}

func stringifyTextID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprintf("%v", id)
	}
}
