package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/storage"
)

// IAction is one unit of work run inside a single database transaction.
// Returning an error rolls the transaction back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func newNonce() string {
	return uuid.Must(uuid.NewV4()).String()
}
