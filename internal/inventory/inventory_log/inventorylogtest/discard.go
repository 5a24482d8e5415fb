// Package inventorylogtest provides activity logs for tests.
package inventorylogtest

import (
	"context"

	inventorylog "shopfloor/internal/inventory/inventory_log"
	"shopfloor/pkg/auditlog"
	"shopfloor/pkg/models"

	"go.uber.org/zap"
)

type discardStore struct{}

func (discardStore) PersistLog(context.Context, models.AuditLog, interface{}) error { return nil }

// NewDiscardLog returns an InventoryLog that drops every entry.
func NewDiscardLog() *inventorylog.InventoryLog {
	return inventorylog.NewInventoryLog(auditlog.NewAuditLog(discardStore{}, zap.NewNop()))
}
