package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// DefaultTelegramBaseURL is the base URL for the Telegram Bot API.
const DefaultTelegramBaseURL = "https://api.telegram.org"

// Telegram posts messages to a chat through the Bot API.
type Telegram struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewTelegram creates a Telegram notifier.
func NewTelegram(botToken, chatID string, httpClient *http.Client) *Telegram {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Telegram{
		botToken:   botToken,
		chatID:     chatID,
		baseURL:    DefaultTelegramBaseURL,
		httpClient: httpClient,
	}
}

// WithBaseURL sets a custom base URL for the Bot API.
func (t *Telegram) WithBaseURL(baseURL string) *Telegram {
	t.baseURL = baseURL
	return t
}

// Name returns "telegram".
func (t *Telegram) Name() string { return "telegram" }

// Send posts body as a plain-text message.
func (t *Telegram) Send(ctx context.Context, body string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id":                  t.chatID,
		"text":                     body,
		"disable_web_page_preview": true,
	})
	if err != nil {
		return fmt.Errorf("marshaling telegram message: %w", err)
	}

	u := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode/100 != 2 {
		if desc := gjson.GetBytes(respBody, "description").String(); desc != "" {
			return fmt.Errorf("telegram status=%d: %s", resp.StatusCode, desc)
		}
		return fmt.Errorf("telegram status=%d", resp.StatusCode)
	}
	return nil
}
