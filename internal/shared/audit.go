package shared

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"
)

// AuditLog describes one mutation of persisted data.
type AuditLog struct {
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// AuditLogger writes audit records as structured log lines.
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger, now: time.Now}
}

// Record emits the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" || log.EntityID == "" {
		return errors.New("audit log requires action/entity/entity_id")
	}
	at := log.At
	if at.IsZero() {
		at = l.now()
	}
	attrs := []any{
		slog.String("action", log.Action),
		slog.String("entity", log.Entity),
		slog.String("entity_id", log.EntityID),
		slog.Time("at", at),
	}
	if log.Actor != "" {
		attrs = append(attrs, slog.String("actor", log.Actor))
	}
	if len(log.Meta) > 0 {
		keys := make([]string, 0, len(log.Meta))
		for k := range log.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		meta := make([]any, 0, len(keys))
		for _, k := range keys {
			meta = append(meta, slog.Any(k, log.Meta[k]))
		}
		attrs = append(attrs, slog.Group("meta", meta...))
	}
	l.logger.InfoContext(ctx, "audit", attrs...)
	return nil
}
