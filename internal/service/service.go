package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/categorize"
	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// Processor runs an action in its own database transaction.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Options carries the environment defaults the services need.
type Options struct {
	Match               ledger.MatchOptions
	PayableMarker       string
	SplitTolerance      int64
	StatsLookbackMonths int
	Currency            string
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Match:               ledger.DefaultMatchOptions(),
		PayableMarker:       "paypal",
		SplitTolerance:      ledger.DefaultSplitTolerance,
		StatsLookbackMonths: 12,
		Currency:            "EUR",
	}
}

// OptionsFromConfig maps the process configuration onto service options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Match: ledger.MatchOptions{
			WindowDays:     cfg.MatchWindowDays,
			ToleranceCents: cfg.AmountToleranceCents,
		},
		PayableMarker:       cfg.PayableMarker,
		SplitTolerance:      cfg.AmountToleranceCents,
		StatsLookbackMonths: cfg.StatsLookbackMonths,
		Currency:            cfg.Currency,
	}
}

// Service holds all business logic services.
type Service struct {
	Account        *AccountService
	Transaction    *TransactionService
	Split          *SplitService
	Reconciliation *ReconciliationService
	Budget         *BudgetService
	Report         *ReportService
	Rule           *RuleService
}

// NewService creates a new Service on top of store. Writes go through
// processor; events are published after commit.
func NewService(
	store storage.Backend,
	processor Processor,
	publisher events.Publisher,
	opts Options,
	logger *logrus.Logger,
) *Service {
	base := &base{
		storage:   store,
		processor: processor,
		publisher: publisher,
		assigner:  categorize.NewPatternAssigner(store, processor, logger),
		opts:      opts,
		logger:    logger,
	}
	split := &SplitService{base: base}
	return &Service{
		Account:        &AccountService{base: base},
		Transaction:    &TransactionService{base: base},
		Split:          split,
		Reconciliation: &ReconciliationService{base: base, splits: split},
		Budget:         &BudgetService{base: base},
		Report:         &ReportService{base: base, now: time.Now},
		Rule:           &RuleService{base: base},
	}
}

// base is shared by the individual services.
type base struct {
	storage   storage.Backend
	processor Processor
	publisher events.Publisher
	assigner  *categorize.PatternAssigner
	opts      Options
	logger    *logrus.Logger
}

// publish sends event without failing the caller; the write it describes is
// already committed.
func (b *base) publish(ctx context.Context, event events.Event) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"kind":     event.Kind,
			"entityID": event.EntityID,
		}).Warn("Service.publish.failed")
	}
}

// autoCategorize runs the pattern assigner over ids. Failures are logged
// only.
func (b *base) autoCategorize(ctx context.Context, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	if _, err := b.assigner.Assign(ctx, ids); err != nil {
		b.logger.WithError(err).WithField("count", len(ids)).Warn("Service.autoCategorize.failed")
	}
}
