package stocks

import (
	"strings"
	"testing"

	"shopfloor/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebitStockQueryIsGuarded(t *testing.T) {
	sql, _, err := debitStockQuery(goqu.Dialect(repository.Dialect), 7, " Main Store ", 3).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `UPDATE "warehouse" SET "stock_quantity"=stock_quantity - 3`)
	assert.Contains(t, sql, `("location_name" = 'main store')`)
	assert.Contains(t, sql, `("product_id" = 7)`)
	assert.Contains(t, sql, `("stock_quantity" >= 3)`)
	assert.Contains(t, sql, `RETURNING "stock_quantity"`)
}

func TestAddStockQueryUpserts(t *testing.T) {
	product := ProductRef{ID: 7, Name: "Green Tea", Barcode: "890100"}
	sql, _, err := addStockQuery(goqu.Dialect(repository.Dialect), product, "Back Room", 5).ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `INSERT INTO "warehouse"`)
	assert.Contains(t, sql, `'back room'`)
	assert.Contains(t, sql, `ON CONFLICT (product_id, location_name) DO UPDATE SET`)
	assert.Contains(t, sql, `"stock_quantity"=warehouse.stock_quantity + EXCLUDED.stock_quantity`)
	assert.Contains(t, sql, `RETURNING "stock_quantity"`)
}

func TestLockStockQueryLocksRow(t *testing.T) {
	sql, _, err := lockStockQuery(goqu.Dialect(repository.Dialect), 7, "Main Store").ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `FROM "warehouse"`)
	assert.Contains(t, sql, `("location_name" = 'main store')`)
	assert.True(t, strings.HasSuffix(sql, " FOR UPDATE"), sql)
}

func TestShareLocationQueryLocksLocation(t *testing.T) {
	sql, _, err := shareLocationQuery(goqu.Dialect(repository.Dialect), "  Main Store ").ToSQL()
	require.NoError(t, err)

	assert.Contains(t, sql, `SELECT "id" FROM "locations"`)
	assert.Contains(t, sql, `(LOWER(TRIM(location_name)) = 'main store')`)
	assert.Contains(t, sql, `LIMIT 1 FOR SHARE`)
}
