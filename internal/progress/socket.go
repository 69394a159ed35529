package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

// Conn is the read side of one push-update subscription.
//
// The client never sends on this channel; reading and closing is the
// whole surface.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// Dialer opens the push channel for one dataset.
type Dialer func(ctx context.Context, datasetID int) (Conn, error)

// WebsocketDialer returns a [Dialer] for the backend's per-dataset
// endpoint (<base>/<datasetID>).
func WebsocketDialer(baseWSURL string) Dialer {
	base := strings.TrimRight(baseWSURL, "/")
	return func(ctx context.Context, datasetID int) (Conn, error) {
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, fmt.Sprintf("%s/%d", base, datasetID), nil)
		if err != nil {
			if resp != nil && resp.Body != nil {
				resp.Body.Close()
			}
			return nil, fmt.Errorf("failed to dial progress socket for dataset %d: %w", datasetID, err)
		}
		return conn, nil
	}
}
