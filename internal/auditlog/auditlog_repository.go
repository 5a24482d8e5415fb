package auditlog

import (
	"context"
	"encoding/json"
	"fmt"

	"shopfloor/internal/repository"
	"shopfloor/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const defaultListLimit = 200

type AuditLogRepository struct {
	repository *repository.Repository
}

type Filter struct {
	ResourceType string
	ResourceID   int
	Limit        uint
}

func (r *AuditLogRepository) PersistLog(ctx context.Context, auditlog models.AuditLog, auditLogData interface{}) error {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   auditlog.ResourceID,
			"resource_type": auditlog.ResourceType,
			"action":        auditlog.Action,
			"data":          string(dataJSON),
			"username":      auditlog.Username,
		})

	if _, err = query.Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetLogs(ctx context.Context, filter Filter) ([]models.AuditLog, error) {
	qb := repository.NewQueryBuilder()
	qb.AddCondition("resource_type", filter.ResourceType)
	if filter.ResourceID > 0 {
		qb.AddCondition("resource_id", filter.ResourceID)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	query := r.repository.GoquDBWrapper.
		From(goqu.T("audit_logs").As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.resource_id").As("resource_id"),
			goqu.I("a.resource_type").As("resource_type"),
			goqu.I("a.action").As("action"),
			goqu.COALESCE(goqu.I("a.data"), goqu.L("'{}'::jsonb")).As("data"),
			goqu.I("a.username").As("username"),
			goqu.I("a.created_at").As("created_at"),
		).
		Where(qb.BuildConditions(map[string]string{
			"resource_type": "a.resource_type",
			"resource_id":   "a.resource_id",
		})).
		Order(goqu.I("a.created_at").Desc(), goqu.I("a.id").Desc()).
		Limit(limit)

	rows, err := query.Executor().QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	auditLogs := []models.AuditLog{}
	for rows.Next() {
		var log models.AuditLog
		if err := rows.Scan(
			&log.ID,
			&log.ResourceID,
			&log.ResourceType,
			&log.Action,
			&log.DataRaw,
			&log.Username,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("unable fetch data: %w", err)
		}
		log.LoadFromDB()
		auditLogs = append(auditLogs, log)
	}

	return auditLogs, rows.Err()
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}
