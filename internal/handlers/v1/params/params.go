// Package params parses the string-typed fields of API requests.
package params

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/money"
)

// DateLayout is the wire format of calendar days.
const DateLayout = "2006-01-02"

func UUID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

// OptionalUUID returns nil for an empty string.
func OptionalUUID(field, s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := UUID(field, s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func UUIDs(field string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(values))
	for i, s := range values {
		id, err := UUID(field, s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func Date(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return t, nil
}

// OptionalDate returns the zero time for an empty string.
func OptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return Date(field, s)
}

func Month(field, s string) (ledger.Month, error) {
	m, err := ledger.ParseMonth(s)
	if err != nil {
		return ledger.Month{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return m, nil
}

// OptionalMonth returns nil for an empty string.
func OptionalMonth(field, s string) (*ledger.Month, error) {
	if s == "" {
		return nil, nil
	}
	m, err := Month(field, s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Amount parses a decimal string such as "-120.00" into cents.
func Amount(field, s string) (int64, error) {
	cents, err := money.ParseCents(s)
	if err != nil {
		return 0, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return cents, nil
}

func TransactionType(field, s string) (ledger.TransactionType, error) {
	t := ledger.TransactionType(s)
	if s != "" && !t.Valid() {
		return "", huma.NewError(http.StatusBadRequest, "invalid "+field)
	}
	return t, nil
}

// DateRange parses an inclusive range; empty bounds are open.
func DateRange(from, to string) (ledger.DateRange, error) {
	var r ledger.DateRange
	var err error
	if r.From, err = OptionalDate("from", from); err != nil {
		return r, err
	}
	if r.To, err = OptionalDate("to", to); err != nil {
		return r, err
	}
	return r, nil
}

// FormatOptionalUUID renders nil as an empty string.
func FormatOptionalUUID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// FormatOptionalMonth renders nil as an empty string.
func FormatOptionalMonth(m *ledger.Month) string {
	if m == nil {
		return ""
	}
	return m.String()
}
