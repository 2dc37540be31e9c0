// Package memstore is an in-memory storage.Backend. Writers are serialized
// and work on a private copy of the data that replaces the shared copy on
// Commit, so readers never observe a partial write.
package memstore

import (
	"context"
	"database/sql"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

type state struct {
	accounts     map[uuid.UUID]ledger.Account
	transactions map[uuid.UUID]ledger.Transaction
	hashes       map[string]uuid.UUID
	// order holds transaction ids in insertion order.
	order    []uuid.UUID
	budgets  map[uuid.UUID]ledger.Budget
	versions map[uuid.UUID]ledger.BudgetVersion
	rules    []ledger.CategoryRule
}

func newState() *state {
	return &state{
		accounts:     make(map[uuid.UUID]ledger.Account),
		transactions: make(map[uuid.UUID]ledger.Transaction),
		hashes:       make(map[string]uuid.UUID),
		budgets:      make(map[uuid.UUID]ledger.Budget),
		versions:     make(map[uuid.UUID]ledger.BudgetVersion),
	}
}

func (s *state) clone() *state {
	return &state{
		accounts:     maps.Clone(s.accounts),
		transactions: maps.Clone(s.transactions),
		hashes:       maps.Clone(s.hashes),
		order:        slices.Clone(s.order),
		budgets:      maps.Clone(s.budgets),
		versions:     maps.Clone(s.versions),
		rules:        slices.Clone(s.rules),
	}
}

// source yields the state a table operates on.
type source func() *state

var _ storage.Backend = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	current *state
	writeMu sync.Mutex
	now     func() time.Time
	reader  *storage.Reader
}

func New() *Store {
	s := &Store{
		current: newState(),
		now:     time.Now,
	}
	s.reader = newReader(s.snapshot)
	return s
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Read() *storage.Reader {
	return s.reader
}

// Write blocks until no other writer is open.
func (s *Store) Write(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.writeMu.Lock()

	working := s.snapshot().clone()
	src := func() *state { return working }
	tx := &memTx{store: s, working: working}
	return storage.NewWriterWith(
		tx,
		&accountTable{src: src},
		&transactionTable{src: src, now: s.now},
		&budgetTable{src: src, now: s.now},
		&versionTable{src: src, now: s.now},
		&ruleTable{src: src},
	), nil
}

func newReader(src source) *storage.Reader {
	return &storage.Reader{
		Accounts:       &accountTable{src: src},
		Transactions:   &transactionTable{src: src},
		Budgets:        &budgetTable{src: src},
		BudgetVersions: &versionTable{src: src},
		Rules:          &ruleTable{src: src},
	}
}

type memTx struct {
	store   *Store
	working *state
	once    sync.Once
}

func (t *memTx) finish(commit bool) error {
	done := false
	t.once.Do(func() {
		done = true
		if commit {
			t.store.mu.Lock()
			t.store.current = t.working
			t.store.mu.Unlock()
		}
		t.store.writeMu.Unlock()
	})
	if !done {
		return sql.ErrTxDone
	}
	return nil
}

func (t *memTx) Commit(_ context.Context) error {
	return t.finish(true)
}

func (t *memTx) Rollback(_ context.Context) error {
	return t.finish(false)
}
