package params

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

func assertBadRequest(t *testing.T, err error) {
	t.Helper()
	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.GetStatus())
}

func TestAmount(t *testing.T) {
	cents, err := Amount("amount", "-120.00")
	require.NoError(t, err)
	assert.Equal(t, int64(-12000), cents)

	_, err = Amount("amount", "1.005")
	assertBadRequest(t, err)
}

func TestDateAndMonth(t *testing.T) {
	d, err := Date("date", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = Date("date", "10/03/2025")
	assertBadRequest(t, err)

	m, err := OptionalMonth("until", "2025-04")
	require.NoError(t, err)
	assert.Equal(t, ledger.NewMonth(2025, time.April), *m)

	m, err = OptionalMonth("until", "")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestOptionalUUIDAndType(t *testing.T) {
	id, err := OptionalUUID("categoryID", "")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = OptionalUUID("categoryID", "nope")
	assertBadRequest(t, err)

	typ, err := TransactionType("type", "")
	require.NoError(t, err)
	assert.Empty(t, typ)

	_, err = TransactionType("type", "REFUND")
	assertBadRequest(t, err)
}

func TestDateRange(t *testing.T) {
	r, err := DateRange("2025-01-01", "")
	require.NoError(t, err)
	assert.False(t, r.From.IsZero())
	assert.True(t, r.To.IsZero())
}
