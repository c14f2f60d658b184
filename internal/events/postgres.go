package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Manikan-10/Party-Planners-Client/internal/logger"
)

// Channel is the PostgreSQL notification channel shared by all instances.
const Channel = "site_events"

// PGBridge relays events between server instances through LISTEN/NOTIFY.
type PGBridge struct {
	pool *pgxpool.Pool
	bus  *Bus
}

// NewPGBridge creates a bridge and registers it as a forwarder on bus.
func NewPGBridge(pool *pgxpool.Pool, bus *Bus) *PGBridge {
	b := &PGBridge{pool: pool, bus: bus}
	bus.AddForwarder(b)
	return b
}

// Forward publishes e to the notification channel.
func (b *PGBridge) Forward(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := b.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, Channel, string(payload)); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// Run listens until ctx is done, reconnecting after connection errors.
func (b *PGBridge) Run(ctx context.Context) {
	for {
		err := b.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		logger.Warnf("events: listener stopped: %v; retrying in 5s", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (b *PGBridge) listen(ctx context.Context) error {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{Channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	logger.Infof("events: listening on %q", Channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		var e Event
		if err := json.Unmarshal([]byte(n.Payload), &e); err != nil {
			logger.Warnf("events: ignoring malformed payload %q", n.Payload)
			continue
		}
		if e.Origin == b.bus.Origin() {
			continue
		}
		b.bus.Deliver(e)
	}
}
