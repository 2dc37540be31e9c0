package budget

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"

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

func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (ledger.Budget, error) {
	return w.find(ctx, id, sm.ForUpdate())
}

func (w *Writer) Insert(ctx context.Context, b ledger.Budget) error {
	q := psql.Insert(
		im.Into(tableName, "id", "name"),
		im.Values(psql.Arg(b.ID), psql.Arg(b.Name)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}
