// Package importer turns exported payment statements into external records
// for reconciliation.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/money"
)

// DefaultPayPalDateLayout is the day-first layout of European PayPal exports.
const DefaultPayPalDateLayout = "02/01/2006"

const utf8BOM = "\xef\xbb\xbf"

var errMissingColumn = errors.New("missing column")

// PayPalParser reads the PayPal "activity download" CSV.
type PayPalParser struct {
	DateLayout string
}

func NewPayPalParser() *PayPalParser {
	return &PayPalParser{DateLayout: DefaultPayPalDateLayout}
}

type payPalColumns struct {
	date, name, gross, reference int
}

// Rows without a counterparty name (balance top-ups, bank funding) and
// zero-amount rows are skipped.
func (p *PayPalParser) Parse(r io.Reader) ([]ledger.ExternalRecord, error) {
	buffered := bufio.NewReader(r)
	if bom, err := buffered.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = buffered.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read paypal header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	layout := p.DateLayout
	if layout == "" {
		layout = DefaultPayPalDateLayout
	}

	var records []ledger.ExternalRecord
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(fields) {
			continue
		}

		name := field(fields, cols.name)
		if name == "" {
			continue
		}
		amount, err := parseAmount(field(fields, cols.gross))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if amount == 0 {
			continue
		}
		date, err := time.Parse(layout, field(fields, cols.date))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse date: %w", line, err)
		}

		records = append(records, ledger.ExternalRecord{
			Date:      ledger.Day(date),
			Merchant:  name,
			Amount:    amount,
			Reference: field(fields, cols.reference),
		})
	}
	return records, nil
}

func locateColumns(header []string) (payPalColumns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	lookup := func(names ...string) (int, error) {
		for _, n := range names {
			if i, ok := index[n]; ok {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w %q", errMissingColumn, names[0])
	}

	var cols payPalColumns
	var err error
	if cols.date, err = lookup("date", "data"); err != nil {
		return cols, err
	}
	if cols.name, err = lookup("name", "nome"); err != nil {
		return cols, err
	}
	if cols.gross, err = lookup("gross", "lordo"); err != nil {
		return cols, err
	}
	if cols.reference, err = lookup("transaction id", "codice transazione"); err != nil {
		return cols, err
	}
	return cols, nil
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseAmount accepts "1,234.56", "1.234,56" and "-25,99". The separator
// that appears last is the decimal separator.
func parseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	if comma > dot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	return money.ParseCents(s)
}
