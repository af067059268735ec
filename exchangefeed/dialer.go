package exchangefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// Dialer opens and reads a single exchange websocket connection,
// decoding each text frame as JSON into dst via ReadInto. Reconnect
// policy belongs to the caller; Dialer itself is a thin wrapper, not a
// managed-connection abstraction.
type Dialer struct {
	url    string
	dialer *websocket.Dialer
}

// NewDialer returns a Dialer for url using gorilla/websocket's default
// dial settings.
func NewDialer(url string) *Dialer {
	return &Dialer{url: url, dialer: websocket.DefaultDialer}
}

// Dial opens the connection, honouring ctx for cancellation.
func (d *Dialer) Dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := d.dialer.DialContext(ctx, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("exchangefeed: dial %s: %w", d.url, err)
	}
	return conn, nil
}

// ReadInto blocks for the next text or binary frame on conn and
// json.Unmarshals it into dst.
func ReadInto(conn *websocket.Conn, dst any) error {
	_, payload, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("exchangefeed: read frame: %w", err)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("exchangefeed: decode frame: %w", err)
	}
	return nil
}
