package logger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

// QueryHook logs every bun query as a typed db record. Successful queries slower
// than SlowThreshold are raised to Warn.
type QueryHook struct {
	SlowThreshold time.Duration
}

var _ bun.QueryHook = (*QueryHook)(nil)

func NewQueryHook(slowThreshold time.Duration) *QueryHook {
	return &QueryHook{SlowThreshold: slowThreshold}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	attrs := []slog.Attr{
		slog.String("type", "db"),
		slog.String("operation", event.Operation()),
		slog.String("query", event.Query),
		slog.Duration("took", duration),
	}

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		slog.LogAttrs(ctx, slog.LevelError, "Query failed", append(attrs, slog.Any("error", event.Err))...)
	case h.SlowThreshold > 0 && duration > h.SlowThreshold:
		slog.LogAttrs(ctx, slog.LevelWarn, "Slow query", attrs...)
	default:
		if event.Result != nil {
			if n, err := event.Result.RowsAffected(); err == nil {
				attrs = append(attrs, slog.Int64("affected_rows", n))
			}
		}
		slog.LogAttrs(ctx, slog.LevelDebug, "Query executed", attrs...)
	}
}
