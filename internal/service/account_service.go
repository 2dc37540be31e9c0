package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

// AccountService opens accounts and reads their running balance.
type AccountService struct {
	*base
}

// CreateAccount opens an account holding startingBalance cents.
func (s *AccountService) CreateAccount(ctx context.Context, name string, startingBalance int64) (ledger.Account, error) {
	action := &actions.CreateAccount{Name: name, StartingBalance: startingBalance}
	if err := s.processor.Process(ctx, action); err != nil {
		return ledger.Account{}, err
	}
	return action.Account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	return s.storage.Read().Accounts.FindByID(ctx, id)
}
