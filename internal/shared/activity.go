package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderStatus codes recorded in the order activity log.
type OrderStatus int

const (
	StatusPickupRequestOpened    OrderStatus = 1
	StatusPickupRequestFinalized OrderStatus = 2
	StatusOrderConfirmed         OrderStatus = 3
	StatusOrderRejected          OrderStatus = 4
)

// ActivityEntry is one immutable audit record of a lifecycle transition.
type ActivityEntry struct {
	Reference string
	Status    OrderStatus
	Message   string
	At        time.Time
}

// ActivityLogger appends to the order_activity_log table. Appends are
// best-effort: a failed insert is logged locally and never aborts the
// lifecycle operation that produced it.
type ActivityLogger struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewActivityLogger returns a new ActivityLogger.
func NewActivityLogger(pool *pgxpool.Pool, logger *slog.Logger) *ActivityLogger {
	return &ActivityLogger{pool: pool, logger: logger}
}

// Append records one transition for the given reference.
func (l *ActivityLogger) Append(ctx context.Context, reference string, status OrderStatus, message string) {
	if err := l.record(ctx, reference, status, message); err != nil {
		l.logger.Warn("activity log append failed",
			slog.String("reference", reference),
			slog.Int("status", int(status)),
			slog.Any("error", err))
	}
}

func (l *ActivityLogger) record(ctx context.Context, reference string, status OrderStatus, message string) error {
	if l == nil || l.pool == nil {
		return errors.New("activity logger not initialised")
	}
	if reference == "" {
		return errors.New("activity log requires a reference")
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO order_activity_log (reference, status, message, created_at) VALUES ($1, $2, $3, NOW())`,
		reference, int(status), message)
	return err
}
