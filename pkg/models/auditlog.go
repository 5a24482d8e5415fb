package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           int                    `json:"id" db:"id"`
	ResourceID   int                    `json:"resource_id" db:"resource_id"`
	ResourceType string                 `json:"resource_type" db:"resource_type"`
	Action       string                 `json:"action" db:"action"` // create, update, delete, stock_added, transferred, audited, sold ...
	DataRaw      string                 `json:"-" db:"data"`
	Data         map[string]interface{} `json:"data" db:"-"`
	Username     *string                `json:"username" db:"username"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}

func (a *AuditLog) LoadFromDB() {
	if a.DataRaw != "" {
		_ = json.Unmarshal([]byte(a.DataRaw), &a.Data)
	}
}
