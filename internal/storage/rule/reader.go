package rule

import (
	"context"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

var _ IReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) List(ctx context.Context) ([]ledger.CategoryRule, error) {
	q := psql.Select(
		sm.Columns("id", "pattern", "is_regex", "transaction_type", "category_id", "priority"),
		sm.From(tableName),
		sm.OrderBy(psql.Quote("priority")).Desc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, fmt.Errorf("select category rules: %w", err)
	}
	rules := make([]ledger.CategoryRule, len(rows))
	for i, found := range rows {
		rules[i] = found.toLedger()
	}
	return rules, nil
}
