package repository

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

func TestQueryBuilderAppliesAliases(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("location_name", "main store")
	qb.AddCondition("barcode", "8901")

	conditions := qb.BuildConditions(map[string]string{"location_name": "w.location_name"})

	assert.Equal(t, goqu.Ex{"w.location_name": "main store", "barcode": "8901"}, conditions)
}

func TestQueryBuilderSkipsEmptyStrings(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("category_name", "")
	qb.AddCondition("alert_quantity", 0)

	assert.Equal(t, goqu.Ex{"alert_quantity": 0}, qb.BuildConditions(nil))
}

func TestQueryBuilderSQL(t *testing.T) {
	qb := NewQueryBuilder()
	qb.AddCondition("brand_name", "acme")

	sql, args, err := goqu.Dialect(Dialect).
		From("products").
		Where(qb.BuildConditions(nil)).
		Prepared(true).
		ToSQL()

	assert.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "products" WHERE ("brand_name" = $1)`, sql)
	assert.Equal(t, []interface{}{"acme"}, args)
}
