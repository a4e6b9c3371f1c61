package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rider-delivery-agent/internal/apperr"
	"rider-delivery-agent/internal/domain"
	"rider-delivery-agent/internal/logx"
)

type sampleDoc struct {
	RiderID   string    `json:"rider_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	AccuracyM float64   `json:"accuracy_m"`
	SampledAt time.Time `json:"sampled_at"`
}

// WSReporter streams position samples over a websocket. The connection is
// dialed lazily and redialed after a failed write; gorilla/websocket allows
// one concurrent writer, so writes are serialised with a mutex.
type WSReporter struct {
	url    string
	dialer *websocket.Dialer
	logger logx.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSReporter creates a reporter for the given ws:// or wss:// URL.
func NewWSReporter(url string, logger logx.Logger) *WSReporter {
	if url == "" {
		return nil
	}
	return &WSReporter{
		url:    url,
		dialer: websocket.DefaultDialer,
		logger: logger,
	}
}

// Report sends one sample, dialing first if no connection is open.
func (r *WSReporter) Report(ctx context.Context, riderID string, p domain.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		conn, _, err := r.dialer.DialContext(ctx, r.url, nil)
		if err != nil {
			return fmt.Errorf("%w: dial %s: %v", apperr.ErrUnavailable, r.url, err)
		}
		r.conn = conn
		r.logger.Info("location stream connected", logx.String("url", r.url))
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = r.conn.SetWriteDeadline(deadline)
	}

	doc := sampleDoc{
		RiderID:   riderID,
		Lat:       p.Lat,
		Lng:       p.Lng,
		AccuracyM: p.AccuracyM,
		SampledAt: p.SampledAt,
	}
	if err := r.conn.WriteJSON(doc); err != nil {
		// drop the broken connection; the next report redials
		_ = r.conn.Close()
		r.conn = nil
		return fmt.Errorf("%w: write sample: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// Close shuts the open connection down, if any.
func (r *WSReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}

var _ Reporter = (*WSReporter)(nil)
