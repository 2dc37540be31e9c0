package actions

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// TransactionInput is one top-level transaction to record on an account.
type TransactionInput struct {
	Date        time.Time
	Description string
	Amount      int64
	// Type defaults to the polarity of Amount.
	Type       ledger.TransactionType
	CategoryID *uuid.UUID
	Reference  string
}

func (in TransactionInput) validate(field string) error {
	if in.Date.IsZero() {
		return &ledger.ValidationError{Field: field + "date", Message: "is required"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return &ledger.ValidationError{Field: field + "description", Message: "must not be empty"}
	}
	if in.Amount == 0 {
		return &ledger.ValidationError{Field: field + "amount", Message: "must not be zero"}
	}
	if in.Type != "" && !in.Type.Valid() {
		return &ledger.ValidationError{Field: field + "type", Message: "unknown type " + string(in.Type)}
	}
	return nil
}

// CreateTransaction records a top-level transaction. A transaction with the
// same import hash already stored is returned instead, without writing.
type CreateTransaction struct {
	AccountID uuid.UUID
	Input     TransactionInput

	ID      uuid.UUID
	Created bool

	IAction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := t.Input.validate(""); err != nil {
		return err
	}
	account, err := writer.Account.FindByIDForUpdate(ctx, t.AccountID)
	if err != nil {
		return err
	}

	t.ID, t.Created, err = insertTopLevel(ctx, writer, &account, t.Input, nil)
	if err != nil {
		return err
	}
	if t.Created {
		return writer.Account.UpdateBalance(ctx, account.ID, account.Balance)
	}
	return nil
}

// insertTopLevel stores in on account unless its hash is already known,
// either in storage or in seen. account.Balance is advanced on insert.
func insertTopLevel(
	ctx context.Context,
	writer *storage.Writer,
	account *ledger.Account,
	in TransactionInput,
	seen map[string]uuid.UUID,
) (uuid.UUID, bool, error) {
	typ := in.Type
	if typ == "" {
		typ = ledger.TypeForAmount(in.Amount)
	}
	hash := ledger.ImportHash(account.ID, in.Date, in.Description, in.Amount, typ)

	if id, ok := seen[hash]; ok {
		return id, false, nil
	}
	existing, err := writer.Transaction.FindByHash(ctx, hash)
	if err == nil {
		return existing.ID, false, nil
	}
	if !ledger.IsNotFound(err) {
		return uuid.Nil, false, err
	}

	balance := account.Balance + in.Amount
	tx := ledger.Transaction{
		ID:           newID(),
		AccountID:    account.ID,
		Date:         ledger.Day(in.Date),
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Type:         typ,
		CategoryID:   in.CategoryID,
		Hash:         hash,
		BalanceAfter: &balance,
		Reference:    in.Reference,
	}
	if err := writer.Transaction.Insert(ctx, tx); err != nil {
		return uuid.Nil, false, err
	}
	account.Balance = balance
	if seen != nil {
		seen[hash] = tx.ID
	}
	return tx.ID, true, nil
}
