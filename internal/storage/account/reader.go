package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
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

func (r *Reader) find(ctx context.Context, id uuid.UUID, mods ...bob.Mod[*dialect.SelectQuery]) (ledger.Account, error) {
	q := psql.Select(append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns("id", "name", "balance_cents", "created_at"),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}, mods...)...)

	found, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Account{}, &ledger.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return ledger.Account{}, fmt.Errorf("select account: %w", err)
	}
	return found.toLedger(), nil
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	return r.find(ctx, id)
}
