package products

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"shopfloor/pkg/models"

	"github.com/shopspring/decimal"
)

const (
	ImportModeMerge   = "merge"
	ImportModeReplace = "replace"

	// days between the spreadsheet epoch (1899-12-30) and the unix epoch
	excelEpochOffset = 25569
	dateLayout       = "2006-01-02"
)

var expireDateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Cell is one spreadsheet value converted to JSON by the client. Strings,
// numbers and booleans are accepted; null and blank strings count as empty.
type Cell struct {
	raw string
}

func NewCell(raw string) Cell {
	return Cell{raw: strings.TrimSpace(raw)}
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		c.raw = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.raw = strings.TrimSpace(s)
		return nil
	}
	c.raw = string(data)
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.raw)
}

func (c Cell) IsEmpty() bool {
	return c.raw == ""
}

func (c Cell) String() string {
	return c.raw
}

func (c Cell) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(c.raw)
}

func (c Cell) Int() (int, error) {
	d, err := decimal.NewFromString(c.raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%s is not a whole number", c.raw)
	}
	return int(d.IntPart()), nil
}

// ImportRow is one product row of a catalog import.
type ImportRow struct {
	ItemName      Cell `json:"item_name"`
	CategoryName  Cell `json:"category_name"`
	SKU           Cell `json:"sku"`
	HSN           Cell `json:"hsn"`
	UnitName      Cell `json:"unit_name"`
	AlertQuantity Cell `json:"alert_quantity"`
	BrandName     Cell `json:"brand_name"`
	LotNumber     Cell `json:"lot_number"`
	ExpireDate    Cell `json:"expire_date"`
	RegularPrice  Cell `json:"regular_price"`
	PurchasePrice Cell `json:"purchase_price"`
	TaxName       Cell `json:"tax_name"`
	TaxValue      Cell `json:"tax_value"`
	TaxType       Cell `json:"tax_type"`
	SalesPrice    Cell `json:"sales_price"`
	OpeningStock  Cell `json:"opening_stock"`
	Barcode       Cell `json:"barcode"`
	DiscountType  Cell `json:"discount_type"`
	Discount      Cell `json:"discount"`
}

type SkippedProduct struct {
	ItemName string `json:"item_name"`
	SKU      string `json:"sku"`
	Message  string `json:"message"`
}

// apply writes the row onto product. With merge, empty cells keep the current
// value; with replace, empty cells clear it.
func (r ImportRow) apply(product *models.Product, merge bool) error {
	text := func(c Cell, dst *string) {
		if !c.IsEmpty() || !merge {
			*dst = c.String()
		}
	}
	optional := func(c Cell, dst **string) {
		if !c.IsEmpty() {
			v := c.String()
			*dst = &v
		} else if !merge {
			*dst = nil
		}
	}
	number := func(name string, c Cell, dst *decimal.Decimal) error {
		if c.IsEmpty() {
			if !merge {
				*dst = decimal.Zero
			}
			return nil
		}
		d, err := c.Decimal()
		if err != nil {
			return fmt.Errorf("invalid %s %q", name, c.String())
		}
		*dst = d
		return nil
	}
	whole := func(name string, c Cell, dst *int) error {
		if c.IsEmpty() {
			if !merge {
				*dst = 0
			}
			return nil
		}
		n, err := c.Int()
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q", name, c.String())
		}
		*dst = n
		return nil
	}

	text(r.ItemName, &product.ItemName)
	text(r.SKU, &product.SKU)
	text(r.Barcode, &product.Barcode)
	optional(r.CategoryName, &product.CategoryName)
	optional(r.HSN, &product.HSN)
	optional(r.UnitName, &product.UnitName)
	optional(r.BrandName, &product.BrandName)
	optional(r.LotNumber, &product.LotNumber)
	optional(r.TaxName, &product.TaxName)
	optional(r.TaxType, &product.TaxType)
	optional(r.DiscountType, &product.DiscountType)

	if expire := ParseExpireDate(r.ExpireDate); expire != nil {
		product.ExpireDate = expire
	} else if !merge {
		product.ExpireDate = nil
	}

	for _, f := range []struct {
		name string
		cell Cell
		dst  *decimal.Decimal
	}{
		{"regular_price", r.RegularPrice, &product.RegularPrice},
		{"purchase_price", r.PurchasePrice, &product.PurchasePrice},
		{"tax_value", r.TaxValue, &product.TaxValue},
		{"sales_price", r.SalesPrice, &product.SalesPrice},
		{"discount", r.Discount, &product.Discount},
	} {
		if err := number(f.name, f.cell, f.dst); err != nil {
			return err
		}
	}

	if err := whole("alert_quantity", r.AlertQuantity, &product.AlertQuantity); err != nil {
		return err
	}
	return whole("opening_stock", r.OpeningStock, &product.OpeningStock)
}

// ParseExpireDate accepts a spreadsheet serial day number or a date string and
// returns it as YYYY-MM-DD, or nil when the cell is empty or unparseable.
func ParseExpireDate(c Cell) *string {
	if c.IsEmpty() {
		return nil
	}

	if serial, err := strconv.ParseFloat(c.String(), 64); err == nil {
		days := math.Floor(serial) - excelEpochOffset
		formatted := time.Unix(int64(days)*86400, 0).UTC().Format(dateLayout)
		return &formatted
	}

	for _, layout := range expireDateLayouts {
		if t, err := time.Parse(layout, c.String()); err == nil {
			formatted := t.Format(dateLayout)
			return &formatted
		}
	}

	return nil
}
