// Package notifier delivers alert messages to an external messaging channel.
package notifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/johan/fedwatch-notifier/internal/config"
)

// Notifier sends one message body to a messaging channel.
type Notifier interface {
	// Name returns the channel identifier, e.g. "twilio".
	Name() string

	// Send delivers body. It returns an error if delivery fails.
	Send(ctx context.Context, body string) error
}

// New creates the notifier selected by cfg. Credentials are resolved from
// the environment variables cfg names.
func New(cfg config.NotifierConfig) (Notifier, error) {
	switch cfg.Type {
	case "twilio":
		return NewTwilio(TwilioCredentials{
			AccountSID: config.Env(cfg.Twilio.AccountSIDEnv),
			AuthToken:  config.Env(cfg.Twilio.AuthTokenEnv),
			From:       config.Env(cfg.Twilio.FromEnv),
			To:         config.Env(cfg.Twilio.ToEnv),
		}, cfg.Timeout)
	case "telegram":
		botToken := config.Env(cfg.Telegram.BotTokenEnv)
		chatID := config.Env(cfg.Telegram.ChatIDEnv)
		if botToken == "" || chatID == "" {
			return nil, fmt.Errorf("telegram notifier: %s and %s must be set", cfg.Telegram.BotTokenEnv, cfg.Telegram.ChatIDEnv)
		}
		t := NewTelegram(botToken, chatID, &http.Client{Timeout: cfg.Timeout})
		if cfg.Telegram.BaseURL != "" {
			t.WithBaseURL(cfg.Telegram.BaseURL)
		}
		return t, nil
	case "websocket":
		if cfg.WebSocket.URL == "" {
			return nil, fmt.Errorf("websocket notifier: url required")
		}
		return NewWebSocket(cfg.WebSocket.URL, cfg.Timeout), nil
	case "log":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("unknown notifier type: %s", cfg.Type)
	}
}
