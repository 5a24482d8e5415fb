package models

import "time"

type StockAudit struct {
	ID            int       `json:"id" db:"id"`
	Barcode       string    `json:"barcode" db:"barcode"`
	ProductName   string    `json:"product_name" db:"product_name"`
	LocationName  string    `json:"location_name" db:"location_name"`
	SystemStock   int       `json:"system_stock" db:"system_stock"`
	PhysicalStock int       `json:"physical_stock" db:"physical_stock"`
	Difference    int       `json:"difference" db:"difference"`
	AuditedBy     string    `json:"audited_by" db:"audited_by"`
	AuditedAt     time.Time `json:"audited_at" db:"audited_at"`
}

func (a *StockAudit) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "stock_audit",
	}
}

type StockAuditRequest struct {
	Barcode       string `json:"barcode" binding:"required"`
	PhysicalStock *int   `json:"physical_stock" binding:"required,gte=0"`
	LocationName  string `json:"location_name" binding:"required"`
	AuditedBy     string `json:"audited_by"`
}

type StockAuditResult struct {
	Message       string `json:"message"`
	ProductName   string `json:"product_name"`
	Barcode       string `json:"barcode"`
	LocationName  string `json:"location_name"`
	PreviousStock int    `json:"previous_stock"`
	UpdatedStock  int    `json:"updated_stock"`
	Difference    int    `json:"difference"`
}
