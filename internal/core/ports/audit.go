package ports

import (
	"context"

	"github.com/hoardly/dashboard/internal/core/domain"
)

// AuditRepository persists session events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.SessionEvent) error
}

// AuditSink accepts session events without blocking the caller on storage.
type AuditSink interface {
	Record(event domain.SessionEvent)
}

// Notifier delivers user-visible notifications.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotificationQueue buffers notifications until the UI collects them.
type NotificationQueue interface {
	Notifier
	Drain() []domain.Notification
}
