package auditlog

import (
	"context"
	"time"

	"shopfloor/pkg/models"

	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

type LogStore interface {
	PersistLog(ctx context.Context, auditlog models.AuditLog, data interface{}) error
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Auditlog struct {
	store LogStore
	log   *zap.Logger
}

// LogAs persists one activity entry for username, which may be empty. Callers
// usually run it in its own goroutine, so it never uses the request context.
func (a *Auditlog) LogAs(username, action string, data interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action
	if username != "" {
		entry.Username = &username
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := a.store.PersistLog(ctx, entry, data); err != nil {
		a.log.Warn("Unable to create activity log entry",
			zap.String("resource_type", entry.ResourceType),
			zap.Int("resource_id", entry.ResourceID),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	a.log.Debug("Created activity log entry",
		zap.String("resource_type", entry.ResourceType),
		zap.Int("resource_id", entry.ResourceID),
		zap.String("action", action),
	)
}

func NewAuditLog(store LogStore, log *zap.Logger) *Auditlog {
	return &Auditlog{store: store, log: log}
}
