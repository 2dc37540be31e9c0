package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func month(y int, m time.Month) Month {
	return NewMonth(y, m)
}

func monthPtr(y int, m time.Month) *Month {
	mo := NewMonth(y, m)
	return &mo
}

func debit(amount int64) Transaction {
	return Transaction{ID: newID(), Date: day(2025, 3, 10), Amount: amount, Type: TransactionTypeDebit}
}

func credit(amount int64) Transaction {
	return Transaction{ID: newID(), Date: day(2025, 3, 10), Amount: amount, Type: TransactionTypeCredit}
}

func childOf(parent Transaction, amount int64, typ TransactionType, categoryID *uuid.UUID) Transaction {
	parentID := parent.ID
	return Transaction{
		ID:         newID(),
		AccountID:  parent.AccountID,
		Date:       parent.Date,
		Amount:     amount,
		Type:       typ,
		CategoryID: categoryID,
		ParentID:   &parentID,
	}
}
