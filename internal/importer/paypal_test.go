package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

const payPalExport = "\ufeff\"Date\",\"Time\",\"TimeZone\",\"Name\",\"Type\",\"Status\",\"Currency\",\"Gross\",\"Fee\",\"Net\",\"Transaction ID\"\n" +
	"\"01/05/2025\",\"10:12:00\",\"CEST\",\"Bookshop Ltd\",\"Express Checkout Payment\",\"Completed\",\"EUR\",\"-25,99\",\"0,00\",\"-25,99\",\"4AB12345\"\n" +
	"\"01/05/2025\",\"10:12:00\",\"CEST\",\"\",\"Bank Deposit to PP Account\",\"Completed\",\"EUR\",\"25,99\",\"0,00\",\"25,99\",\"7CD67890\"\n" +
	"\"03/05/2025\",\"18:40:00\",\"CEST\",\"Airline SA\",\"Express Checkout Payment\",\"Completed\",\"EUR\",\"-1.234,50\",\"0,00\",\"-1.234,50\",\"9EF00001\"\n"

func TestPayPalParser_Parse(t *testing.T) {
	records, err := NewPayPalParser().Parse(strings.NewReader(payPalExport))

	require.NoError(t, err)
	assert.Equal(t, []ledger.ExternalRecord{
		{Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Merchant: "Bookshop Ltd", Amount: -2599, Reference: "4AB12345"},
		{Date: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), Merchant: "Airline SA", Amount: -123450, Reference: "9EF00001"},
	}, records)
}

func TestPayPalParser_MissingColumn(t *testing.T) {
	_, err := NewPayPalParser().Parse(strings.NewReader("Date,Name,Gross\n01/05/2025,Shop,-1.00\n"))

	assert.ErrorIs(t, err, errMissingColumn)
}

func TestPayPalParser_BadDateReportsLine(t *testing.T) {
	input := "Date,Name,Gross,Transaction ID\n2025-05-01,Shop,-1.00,X1\n"

	_, err := NewPayPalParser().Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestPayPalParser_CustomLayout(t *testing.T) {
	input := "Date,Name,Gross,Transaction ID\n05/03/2025,Shop,-1.50,X1\n"
	p := &PayPalParser{DateLayout: "01/02/2006"}

	records, err := p.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, int64(-150), records[0].Amount)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]int64{
		"-25,99":    -2599,
		"1,234.56":  123456,
		"1.234,56":  123456,
		"-0.01":     -1,
		"12":        1200,
		" -3 000,5": -300050,
	}
	for in, want := range cases {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
