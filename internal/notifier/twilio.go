package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the subset of the Twilio REST API used to send messages.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioCredentials holds the four values needed to send a WhatsApp message.
type TwilioCredentials struct {
	AccountSID string
	AuthToken  string
	From       string // e.g. "whatsapp:+12345678900"
	To         string // e.g. "whatsapp:+10987654321"
}

func (c TwilioCredentials) missing() []string {
	var out []string
	if c.AccountSID == "" {
		out = append(out, "account sid")
	}
	if c.AuthToken == "" {
		out = append(out, "auth token")
	}
	if c.From == "" {
		out = append(out, "sender")
	}
	if c.To == "" {
		out = append(out, "recipient")
	}
	return out
}

// Twilio sends WhatsApp messages through the Twilio Messages API.
type Twilio struct {
	api  messageCreator
	from string
	to   string
}

// NewTwilio creates a Twilio notifier. All four credentials are required.
func NewTwilio(creds TwilioCredentials, timeout time.Duration) (*Twilio, error) {
	if missing := creds.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("twilio notifier: missing %s", strings.Join(missing, ", "))
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: creds.AccountSID,
		Password: creds.AuthToken,
	})
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Twilio{
		api:  client.Api,
		from: creds.From,
		to:   creds.To,
	}, nil
}

// Name returns "twilio".
func (t *Twilio) Name() string { return "twilio" }

// Send creates one message. The Twilio client has no context support, so
// ctx is only checked before the call.
func (t *Twilio) Send(ctx context.Context, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(t.to)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("creating twilio message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		slog.Debug("notifier: twilio message created", "sid", *resp.Sid)
	}
	return nil
}
