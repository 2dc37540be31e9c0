package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/storage"
)

// ImportTransactions records a batch of statement rows on one account.
// Rows whose hash is already stored, or repeated within the batch, are
// skipped. Any invalid row rejects the whole batch.
type ImportTransactions struct {
	AccountID uuid.UUID
	Rows      []TransactionInput

	IDs     []uuid.UUID
	Created int
	Skipped int

	IAction
}

func (t *ImportTransactions) Perform(ctx context.Context, writer *storage.Writer) error {
	for i, row := range t.Rows {
		if err := row.validate(fmt.Sprintf("rows[%d].", i)); err != nil {
			return err
		}
	}
	account, err := writer.Account.FindByIDForUpdate(ctx, t.AccountID)
	if err != nil {
		return err
	}
	startBalance := account.Balance

	seen := make(map[string]uuid.UUID, len(t.Rows))
	t.IDs = make([]uuid.UUID, 0, len(t.Rows))
	t.Created, t.Skipped = 0, 0
	for _, row := range t.Rows {
		id, created, err := insertTopLevel(ctx, writer, &account, row, seen)
		if err != nil {
			return err
		}
		t.IDs = append(t.IDs, id)
		if created {
			t.Created++
		} else {
			t.Skipped++
		}
	}

	if account.Balance != startBalance {
		return writer.Account.UpdateBalance(ctx, account.ID, account.Balance)
	}
	return nil
}
