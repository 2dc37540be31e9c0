package transaction

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

func selectMods(mods ...bob.Mod[*dialect.SelectQuery]) []bob.Mod[*dialect.SelectQuery] {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = psql.Quote(c)
	}
	return append([]bob.Mod[*dialect.SelectQuery]{sm.Columns(cols...), sm.From(tableName)}, mods...)
}

func (r *Reader) one(ctx context.Context, id uuid.UUID, mods ...bob.Mod[*dialect.SelectQuery]) (ledger.Transaction, error) {
	q := psql.Select(selectMods(mods...)...)
	found, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Transaction{}, &ledger.NotFoundError{Entity: "transaction", ID: id}
	}
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return found.toLedger(), nil
}

func (r *Reader) all(ctx context.Context, mods ...bob.Mod[*dialect.SelectQuery]) ([]ledger.Transaction, error) {
	q := psql.Select(selectMods(mods...)...)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	result := make([]ledger.Transaction, len(rows))
	for i, found := range rows {
		result[i] = found.toLedger()
	}
	return result, nil
}

// FindByID retrieves a transaction by primary key.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	return r.one(ctx, id, sm.Where(psql.Quote("id").EQ(psql.Arg(id))))
}

// FindByHash retrieves a transaction by its unique hash.
func (r *Reader) FindByHash(ctx context.Context, hash string) (ledger.Transaction, error) {
	return r.one(ctx, uuid.Nil, sm.Where(psql.Quote("hash").EQ(psql.Arg(hash))))
}

// FindByIDs returns the transactions among ids that exist, in no
// particular order.
func (r *Reader) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ledger.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.all(ctx, sm.Where(psql.Quote("id").In(uuidArgs(ids)...)))
}

func uuidArgs(ids []uuid.UUID) []bob.Expression {
	args := make([]bob.Expression, len(ids))
	for i, id := range ids {
		args[i] = psql.Arg(id)
	}
	return args
}

// ListChildren returns the children of parentID in insertion order.
func (r *Reader) ListChildren(ctx context.Context, parentID uuid.UUID) ([]ledger.Transaction, error) {
	return r.all(ctx,
		sm.Where(psql.Quote("parent_id").EQ(psql.Arg(parentID))),
		sm.OrderBy(psql.Quote("created_at")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
}

// ListChildrenOf returns the children of all parentIDs in one query.
func (r *Reader) ListChildrenOf(ctx context.Context, parentIDs []uuid.UUID) ([]ledger.Transaction, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	return r.all(ctx,
		sm.Where(psql.Quote("parent_id").In(uuidArgs(parentIDs)...)),
		sm.OrderBy(psql.Quote("created_at")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)
}

// ListNodes loads the transactions selected by filter together with their
// direct children in two queries.
func (r *Reader) ListNodes(ctx context.Context, filter *NodeFilter) ([]ledger.Node, error) {
	var mods []bob.Mod[*dialect.SelectQuery]
	if filter != nil {
		if filter.AccountID != nil {
			mods = append(mods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID))))
		}
		if !filter.Range.From.IsZero() {
			mods = append(mods, sm.Where(psql.Quote("transaction_date").GTE(psql.Arg(ledger.Day(filter.Range.From)))))
		}
		if !filter.Range.To.IsZero() {
			mods = append(mods, sm.Where(psql.Quote("transaction_date").LTE(psql.Arg(ledger.Day(filter.Range.To)))))
		}
	}
	mods = append(mods,
		sm.OrderBy(psql.Quote("transaction_date")).Asc(),
		sm.OrderBy(psql.Quote("created_at")).Asc(),
		sm.OrderBy(psql.Quote("id")).Asc(),
	)

	transactions, err := r.all(ctx, mods...)
	if err != nil {
		return nil, err
	}

	parentIDs := make([]uuid.UUID, 0, len(transactions))
	for _, t := range transactions {
		if !t.IsSplitChild() {
			parentIDs = append(parentIDs, t.ID)
		}
	}
	children, err := r.ListChildrenOf(ctx, parentIDs)
	if err != nil {
		return nil, err
	}
	return AttachChildren(transactions, children), nil
}

// List returns transactions matching the filter, newest first. When a limit
// is set one extra row is fetched so callers can detect a next page.
func (r *Reader) List(ctx context.Context, filter *ListFilter) ([]ledger.Transaction, error) {
	var mods []bob.Mod[*dialect.SelectQuery]
	if filter != nil {
		if filter.AccountID != nil {
			mods = append(mods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID))))
		}
		if filter.CategoryID != nil {
			mods = append(mods, sm.Where(psql.Quote("category_id").EQ(psql.Arg(*filter.CategoryID))))
		}
		if filter.TopLevelOnly {
			mods = append(mods, sm.Where(psql.Quote("parent_id").IsNull()))
		}
		if filter.MaxCreationTime != nil {
			mods = append(mods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
		if filter.Limit > 0 {
			mods = append(mods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			mods = append(mods, sm.Offset(filter.Offset))
		}
	}
	mods = append(mods,
		sm.OrderBy(psql.Quote("created_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)
	return r.all(ctx, mods...)
}

// LinkedReferences returns the non-empty references carried by split
// children of accountID.
func (r *Reader) LinkedReferences(ctx context.Context, accountID uuid.UUID) (map[string]struct{}, error) {
	q := psql.Select(
		sm.Columns(psql.Quote("reference")),
		sm.From(tableName),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
		sm.Where(psql.Quote("parent_id").IsNotNull()),
		sm.Where(psql.Quote("reference").NE(psql.Arg(""))),
	)
	refs, err := bob.All(ctx, r.exec, q, scan.SingleColumnMapper[string])
	if err != nil {
		return nil, fmt.Errorf("select linked references: %w", err)
	}
	linked := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		linked[ref] = struct{}{}
	}
	return linked, nil
}
