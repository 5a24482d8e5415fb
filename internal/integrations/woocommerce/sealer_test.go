package woocommerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerRoundTrip(t *testing.T) {
	sealer := NewSealer("server-side-key")

	sealed, err := sealer.Seal("ck_live_123")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "ck_live_123")

	again, err := sealer.Seal("ck_live_123")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again)

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ck_live_123", opened)
}

func TestSealerRejectsForeignOrCorruptValues(t *testing.T) {
	sealed, err := NewSealer("key-one").Seal("cs_live_456")
	require.NoError(t, err)

	_, err = NewSealer("key-two").Open(sealed)
	assert.ErrorIs(t, err, ErrUnseal)

	_, err = NewSealer("key-one").Open("not base64 !!")
	assert.ErrorIs(t, err, ErrUnseal)

	_, err = NewSealer("key-one").Open("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrUnseal)
}
