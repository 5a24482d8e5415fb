package custom_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		sentinel error
	}{
		{name: "unique violation", code: "23505", sentinel: ErrDuplicate},
		{name: "foreign key violation", code: "23503", sentinel: ErrInUse},
		{name: "check violation", code: "23514", sentinel: ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapDBError("boom", tt.code)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, err.Error(), tt.code)
		})
	}

	err := WrapDBError("boom", "42P01")
	assert.Contains(t, err.Error(), "uncategorized")
}

func TestFromPQ(t *testing.T) {
	err := FromPQ(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), "duplicate barcode")
	var unique *UniqueViolationError
	assert.True(t, errors.As(err, &unique))

	plain := errors.New("connection reset")
	err = FromPQ(plain, "failed to insert product")
	assert.ErrorIs(t, err, plain)
	assert.Equal(t, "failed to insert product: connection reset", err.Error())
}

func TestMessageHelpers(t *testing.T) {
	assert.ErrorIs(t, Validation("missing %s", "barcode"), ErrValidation)
	assert.ErrorIs(t, NotFound("product %s", "123"), ErrNotFound)
	assert.ErrorIs(t, Insufficient("only %d left", 2), ErrInsufficientStock)
	assert.ErrorIs(t, Duplicate("sku %s", "A1"), ErrDuplicate)
	assert.ErrorIs(t, InUse("location %d", 3), ErrInUse)
	assert.Equal(t, "missing barcode", Validation("missing %s", "barcode").Error())
}
