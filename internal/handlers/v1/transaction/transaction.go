package transaction

import (
	"time"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/params"
	"github.com/carson-networks/budget-ledger/internal/money"
	"github.com/carson-networks/budget-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID             string `json:"id" doc:"Transaction UUID"`
	AccountID      string `json:"accountID" doc:"Account UUID"`
	CategoryID     string `json:"categoryID,omitempty" doc:"Category UUID, absent when uncategorized"`
	ParentID       string `json:"parentID,omitempty" doc:"Parent transaction UUID for splits"`
	Date           string `json:"date" doc:"Transaction day, YYYY-MM-DD"`
	Description    string `json:"description" doc:"Statement description"`
	Amount         string `json:"amount" doc:"Signed decimal amount, expenses negative"`
	AdjustedAmount string `json:"adjustedAmount" doc:"Amount not yet carried by categorized splits"`
	Type           string `json:"type" enum:"DEBIT,CREDIT" doc:"Transaction polarity"`
	BalanceAfter   string `json:"balanceAfter,omitempty" doc:"Account balance after this transaction"`
	Reference      string `json:"reference,omitempty" doc:"External reference"`
	SplitCount     int    `json:"splitCount" doc:"Number of splits"`
	CreatedAt      string `json:"createdAt" format:"date-time" doc:"RFC3339 creation time"`
}

func fromService(row service.TransactionRow) Transaction {
	tx := Transaction{
		ID:             row.ID.String(),
		AccountID:      row.AccountID.String(),
		CategoryID:     params.FormatOptionalUUID(row.CategoryID),
		ParentID:       params.FormatOptionalUUID(row.ParentID),
		Date:           row.Date.Format(params.DateLayout),
		Description:    row.Description,
		Amount:         money.FormatCents(row.Amount),
		AdjustedAmount: money.FormatCents(row.AdjustedAmount),
		Type:           string(row.Type),
		Reference:      row.Reference,
		SplitCount:     row.ChildCount,
		CreatedAt:      row.CreatedAt.Format(time.RFC3339),
	}
	if row.BalanceAfter != nil {
		tx.BalanceAfter = money.FormatCents(*row.BalanceAfter)
	}
	return tx
}
