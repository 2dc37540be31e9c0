// Package events publishes ledger changes after they are committed.
// Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindTransactionCreated   Kind = "transaction.created"
	KindSplitsCreated        Kind = "splits.created"
	KindSplitsDeleted        Kind = "splits.deleted"
	KindRecordsLinked        Kind = "reconciliation.linked"
	KindBudgetVersionSaved   Kind = "budget_version.saved"
	KindBudgetVersionDeleted Kind = "budget_version.deleted"
)

// Event is the message body. EntityID is the aggregate the change belongs
// to: the parent transaction for splits, the budget for versions.
type Event struct {
	Kind      Kind           `json:"kind"`
	EntityID  uuid.UUID      `json:"entityID"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func New(kind Kind, entityID uuid.UUID, data map[string]any) Event {
	return Event{
		Kind:      kind,
		EntityID:  entityID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the log, for setups without a broker.
type LogPublisher struct {
	logger *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.WithFields(logrus.Fields{
		"kind":     event.Kind,
		"entityID": event.EntityID.String(),
		"data":     event.Data,
	}).Info("Events.Publish.logged")
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
