package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const NotAvailable = "N/A"

type Sale struct {
	ID            int             `json:"saleId" db:"id"`
	CustomerName  string          `json:"customerName" db:"customer_name"`
	CustomerPhone string          `json:"customerPhone" db:"customer_phone"`
	TotalAmount   decimal.Decimal `json:"totalAmount" db:"total_amount"`
	PaymentMethod string          `json:"paymentMethod" db:"payment_method"`
	SaleDate      time.Time       `json:"saleDate" db:"sale_date"`
	IsInvoiced    bool            `json:"isInvoiced" db:"is_invoiced"`
	Items         []SaleItem      `json:"items" db:"-"`
}

func (s *Sale) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "sale",
	}
}

type SaleItem struct {
	ID        int             `json:"itemId" db:"id"`
	SaleID    int             `json:"-" db:"sale_id"`
	ProductID int             `json:"productId" db:"product_id"`
	ItemName  string          `json:"item_name" db:"item_name"`
	Quantity  int             `json:"quantity" db:"quantity"`
	SalePrice decimal.Decimal `json:"salePrice" db:"sale_price"`
	Discount  decimal.Decimal `json:"discount" db:"discount"`
	Tax       decimal.Decimal `json:"tax" db:"tax"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

type SaleRequest struct {
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	TotalAmount   *decimal.Decimal `json:"totalAmount"`
	PaymentMethod string           `json:"paymentMethod"`
}

type SaleItemRequest struct {
	ProductID    int              `json:"productId"`
	Quantity     int              `json:"quantity"`
	SalePrice    *decimal.Decimal `json:"salePrice"`
	Discount     *decimal.Decimal `json:"discount"`
	Tax          *decimal.Decimal `json:"tax"`
	Subtotal     *decimal.Decimal `json:"subtotal"`
	LocationName string           `json:"locationName"`
}
