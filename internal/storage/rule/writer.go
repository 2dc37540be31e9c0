package rule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

var _ IWriter = (*Writer)(nil)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Insert(ctx context.Context, r ledger.CategoryRule) error {
	var typ sql.NullString
	if r.Type != nil {
		typ = sql.NullString{String: string(*r.Type), Valid: true}
	}
	q := psql.Insert(
		im.Into(tableName, "id", "pattern", "is_regex", "transaction_type", "category_id", "priority"),
		im.Values(
			psql.Arg(r.ID),
			psql.Arg(r.Pattern),
			psql.Arg(r.IsRegex),
			psql.Arg(typ),
			psql.Arg(r.CategoryID),
			psql.Arg(r.Priority),
		),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return fmt.Errorf("insert category rule: %w", err)
	}
	return nil
}
