package models

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

func init() {
	// the dashboard reads prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID            int             `json:"id" db:"id"`
	ItemName      string          `json:"item_name" db:"item_name"`
	CategoryName  *string         `json:"category_name" db:"category_name"`
	SKU           string          `json:"sku" db:"sku"`
	HSN           *string         `json:"hsn" db:"hsn"`
	UnitName      *string         `json:"unit_name" db:"unit_name"`
	AlertQuantity int             `json:"alert_quantity" db:"alert_quantity"`
	BrandName     *string         `json:"brand_name" db:"brand_name"`
	LotNumber     *string         `json:"lot_number" db:"lot_number"`
	ExpireDate    *string         `json:"expire_date" db:"expire_date"`
	RegularPrice  decimal.Decimal `json:"regular_price" db:"regular_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	TaxName       *string         `json:"tax_name" db:"tax_name"`
	TaxValue      decimal.Decimal `json:"tax_value" db:"tax_value"`
	TaxType       *string         `json:"tax_type" db:"tax_type"`
	SalesPrice    decimal.Decimal `json:"sales_price" db:"sales_price"`
	OpeningStock  int             `json:"opening_stock" db:"opening_stock"`
	Barcode       string          `json:"barcode" db:"barcode"`
	DiscountType  *string         `json:"discount_type" db:"discount_type"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
}

// ProductRequest is the create/update payload of the catalog endpoints.
type ProductRequest struct {
	ItemName      string          `json:"item_name" binding:"required"`
	CategoryName  *string         `json:"category_name"`
	SKU           string          `json:"sku"`
	HSN           *string         `json:"hsn"`
	UnitName      *string         `json:"unit_name"`
	AlertQuantity int             `json:"alert_quantity" binding:"gte=0"`
	BrandName     *string         `json:"brand_name"`
	LotNumber     *string         `json:"lot_number"`
	ExpireDate    *string         `json:"expire_date"`
	RegularPrice  decimal.Decimal `json:"regular_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TaxName       *string         `json:"tax_name"`
	TaxValue      decimal.Decimal `json:"tax_value"`
	TaxType       *string         `json:"tax_type"`
	SalesPrice    decimal.Decimal `json:"sales_price"`
	OpeningStock  int             `json:"opening_stock" binding:"gte=0"`
	Barcode       string          `json:"barcode"`
	DiscountType  *string         `json:"discount_type"`
	Discount      decimal.Decimal `json:"discount"`
}

func (r ProductRequest) ToProduct() Product {
	return Product{
		ItemName:      r.ItemName,
		CategoryName:  r.CategoryName,
		SKU:           r.SKU,
		HSN:           r.HSN,
		UnitName:      r.UnitName,
		AlertQuantity: r.AlertQuantity,
		BrandName:     r.BrandName,
		LotNumber:     r.LotNumber,
		ExpireDate:    r.ExpireDate,
		RegularPrice:  r.RegularPrice,
		PurchasePrice: r.PurchasePrice,
		TaxName:       r.TaxName,
		TaxValue:      r.TaxValue,
		TaxType:       r.TaxType,
		SalesPrice:    r.SalesPrice,
		OpeningStock:  r.OpeningStock,
		Barcode:       r.Barcode,
		DiscountType:  r.DiscountType,
		Discount:      r.Discount,
	}
}

// Record returns the writable columns of the product.
func (p *Product) Record() goqu.Record {
	return goqu.Record{
		"item_name":      p.ItemName,
		"category_name":  p.CategoryName,
		"sku":            p.SKU,
		"hsn":            p.HSN,
		"unit_name":      p.UnitName,
		"alert_quantity": p.AlertQuantity,
		"brand_name":     p.BrandName,
		"lot_number":     p.LotNumber,
		"expire_date":    p.ExpireDate,
		"regular_price":  p.RegularPrice,
		"purchase_price": p.PurchasePrice,
		"tax_name":       p.TaxName,
		"tax_value":      p.TaxValue,
		"tax_type":       p.TaxType,
		"sales_price":    p.SalesPrice,
		"opening_stock":  p.OpeningStock,
		"barcode":        p.Barcode,
		"discount_type":  p.DiscountType,
		"discount":       p.Discount,
	}
}

func (p *Product) IsLowStock() bool {
	return p.OpeningStock < p.AlertQuantity
}

func (p *Product) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "product",
	}
}

// RemainingStock is the point-of-sale view of a product.
type RemainingStock struct {
	ID            int             `json:"id" db:"id"`
	Barcode       string          `json:"barcode" db:"barcode"`
	OpeningStock  int             `json:"opening_stock" db:"opening_stock"`
	RegularPrice  decimal.Decimal `json:"regular_price" db:"regular_price"`
	SalesPrice    decimal.Decimal `json:"sales_price" db:"sales_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	ItemName      string          `json:"item_name" db:"item_name"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
	TaxValue      decimal.Decimal `json:"tax_value" db:"tax_value"`
}
