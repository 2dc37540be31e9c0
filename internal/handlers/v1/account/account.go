package account

import (
	"time"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/money"
)

// Account is the API response model for an account.
type Account struct {
	ID        string `json:"id" doc:"Account UUID"`
	Name      string `json:"name" doc:"Account name"`
	Balance   string `json:"balance" doc:"Decimal running balance"`
	CreatedAt string `json:"createdAt,omitempty" doc:"RFC3339 creation time"`
}

func fromLedger(a ledger.Account) Account {
	out := Account{
		ID:      a.ID.String(),
		Name:    a.Name,
		Balance: money.FormatCents(a.Balance),
	}
	if !a.CreatedAt.IsZero() {
		out.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return out
}
