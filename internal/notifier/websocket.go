package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const defaultWebSocketTimeout = 10 * time.Second

// WebSocket delivers each message as a single text frame to a relay
// endpoint. A connection is opened per message and closed afterwards.
type WebSocket struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
}

// NewWebSocket creates a websocket relay notifier.
func NewWebSocket(url string, timeout time.Duration) *WebSocket {
	if timeout <= 0 {
		timeout = defaultWebSocketTimeout
	}
	return &WebSocket{
		url:     url,
		timeout: timeout,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
	}
}

// Name returns "websocket".
func (w *WebSocket) Name() string { return "websocket" }

// Send dials the relay, writes body and closes the connection.
func (w *WebSocket) Send(ctx context.Context, body string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("dialing relay: %w", err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(body)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		return fmt.Errorf("writing close message: %w", err)
	}
	return nil
}
