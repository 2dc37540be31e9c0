package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage/memstore"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]events.Kind, len(p.events))
	for i, e := range p.events {
		kinds[i] = e.Kind
	}
	return kinds
}

type testEnv struct {
	svc       *Service
	store     *memstore.Store
	processor *operator.OperatorDelegator
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.New()
	delegator := operator.NewOperatorDelegator(store, 2)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	publisher := &recordingPublisher{}
	return &testEnv{
		svc:       NewService(store, delegator, publisher, DefaultOptions(), logger),
		store:     store,
		processor: delegator,
		publisher: publisher,
	}
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (e *testEnv) account(t *testing.T) uuid.UUID {
	t.Helper()
	create := &actions.CreateAccount{Name: "Checking"}
	require.NoError(t, e.processor.Process(context.Background(), create))
	return create.Account.ID
}

func (e *testEnv) transaction(t *testing.T, accountID uuid.UUID, date time.Time, desc string, amount int64) uuid.UUID {
	t.Helper()
	id, created, err := e.svc.Transaction.CreateTransaction(context.Background(), accountID, actions.TransactionInput{
		Date:        date,
		Description: desc,
		Amount:      amount,
	})
	require.NoError(t, err)
	require.True(t, created)
	return id
}
