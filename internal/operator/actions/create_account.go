package actions

import (
	"context"
	"strings"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// CreateAccount opens an account with a starting balance in cents.
type CreateAccount struct {
	Name            string
	StartingBalance int64

	Account ledger.Account

	IAction
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ledger.ValidationError{Field: "name", Message: "must not be empty"}
	}
	account := ledger.Account{
		ID:      newID(),
		Name:    name,
		Balance: c.StartingBalance,
	}
	if err := writer.Account.Insert(ctx, account); err != nil {
		return err
	}
	c.Account = account
	return nil
}
