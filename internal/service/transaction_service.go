package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

const defaultLimit = 20

// TransactionService handles transaction business logic.
type TransactionService struct {
	*base
}

// TransactionRow is a listed transaction with its adjusted amount.
type TransactionRow struct {
	ledger.Transaction
	AdjustedAmount int64
	ChildCount     int
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionQuery narrows a listing. Zero values do not filter.
type TransactionQuery struct {
	AccountID    *uuid.UUID
	CategoryID   *uuid.UUID
	TopLevelOnly bool
}

// ImportResult reports the outcome of a bulk import. IDs follow the input
// order; skipped rows carry the id of the transaction already stored.
type ImportResult struct {
	IDs     []uuid.UUID
	Created int
	Skipped int
}

// CreateTransaction records a transaction on accountID. created is false
// when an identical transaction was already stored.
func (s *TransactionService) CreateTransaction(ctx context.Context, accountID uuid.UUID, in actions.TransactionInput) (id uuid.UUID, created bool, err error) {
	action := &actions.CreateTransaction{AccountID: accountID, Input: in}
	if err := s.processor.Process(ctx, action); err != nil {
		return uuid.Nil, false, err
	}
	if action.Created {
		s.autoCategorize(ctx, []uuid.UUID{action.ID})
		s.publish(ctx, events.New(events.KindTransactionCreated, action.ID, map[string]any{
			"accountID": accountID.String(),
			"amount":    in.Amount,
		}))
	}
	return action.ID, action.Created, nil
}

// ImportTransactions records rows on accountID in one database transaction.
func (s *TransactionService) ImportTransactions(ctx context.Context, accountID uuid.UUID, rows []actions.TransactionInput) (*ImportResult, error) {
	action := &actions.ImportTransactions{AccountID: accountID, Rows: rows}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	if action.Created > 0 {
		s.autoCategorize(ctx, action.IDs)
	}
	s.logger.WithField("accountID", accountID).
		WithField("created", action.Created).
		WithField("skipped", action.Skipped).
		Info("TransactionService.ImportTransactions.complete")
	return &ImportResult{IDs: action.IDs, Created: action.Created, Skipped: action.Skipped}, nil
}

// SetCategory sets, or with a nil categoryID clears, a transaction's category.
func (s *TransactionService) SetCategory(ctx context.Context, id uuid.UUID, categoryID *uuid.UUID) error {
	return s.processor.Process(ctx, &actions.SetCategory{TransactionID: id, CategoryID: categoryID})
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, query TransactionQuery, cursor *TransactionCursor) ([]TransactionRow, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		limit = cursor.Limit
		offset = cursor.Position
		maxCreationTime = &cursor.MaxCreationTime
	}

	filter := &transaction.ListFilter{
		AccountID:       query.AccountID,
		CategoryID:      query.CategoryID,
		TopLevelOnly:    query.TopLevelOnly,
		Limit:           limit,
		Offset:          offset,
		MaxCreationTime: maxCreationTime,
	}

	reader := s.storage.Read()
	rows, err := reader.Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}

		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	parentIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if !row.IsSplitChild() {
			parentIDs = append(parentIDs, row.ID)
		}
	}
	children, err := reader.Transactions.ListChildrenOf(ctx, parentIDs)
	if err != nil {
		return nil, nil, err
	}

	nodes := transaction.AttachChildren(rows, children)
	converted := make([]TransactionRow, len(nodes))
	for i, node := range nodes {
		converted[i] = TransactionRow{
			Transaction:    node.Transaction,
			AdjustedAmount: node.AdjustedAmount(),
			ChildCount:     len(node.Children),
		}
	}

	return converted, nextCursor, nil
}
