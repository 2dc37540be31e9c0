package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/events"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage/transaction"
)

// ReconciliationService pairs external payment records with ledger
// transactions and links them as splits.
type ReconciliationService struct {
	*base
	splits *SplitService
}

// Link is an external record materialized as a split child of the
// transaction that settled it.
type Link struct {
	Record        ledger.ExternalRecord
	TransactionID uuid.UUID
	ChildID       uuid.UUID
}

// LinkFailure is a matched record whose split could not be written.
type LinkFailure struct {
	Record        ledger.ExternalRecord
	TransactionID uuid.UUID
	Err           error
}

// LinkResult reports a link run. AlreadyLinked counts records dropped
// because their reference sits on an earlier link.
type LinkResult struct {
	Linked        []Link
	Unmatched     []ledger.ExternalRecord
	Failed        []LinkFailure
	AlreadyLinked int
}

func validateRecords(records []ledger.ExternalRecord) error {
	for i, r := range records {
		if r.Date.IsZero() {
			return &ledger.ValidationError{Field: fmt.Sprintf("records[%d].date", i), Message: "is required"}
		}
		if r.Amount == 0 {
			return &ledger.ValidationError{Field: fmt.Sprintf("records[%d].amount", i), Message: "must not be zero"}
		}
	}
	return nil
}

// MatchExternalRecords pairs records with candidate transactions of
// accountID. It does not write.
func (s *ReconciliationService) MatchExternalRecords(ctx context.Context, accountID uuid.UUID, records []ledger.ExternalRecord) (ledger.MatchResult, error) {
	if err := validateRecords(records); err != nil {
		return ledger.MatchResult{}, err
	}
	return s.match(ctx, accountID, records)
}

func (s *ReconciliationService) match(ctx context.Context, accountID uuid.UUID, records []ledger.ExternalRecord) (ledger.MatchResult, error) {
	if len(records) == 0 {
		return ledger.MatchResult{}, nil
	}
	if _, err := s.storage.Read().Accounts.FindByID(ctx, accountID); err != nil {
		return ledger.MatchResult{}, err
	}

	from, to := records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(from) {
			from = r.Date
		}
		if r.Date.After(to) {
			to = r.Date
		}
	}
	window := time.Duration(s.opts.Match.WindowDays) * 24 * time.Hour
	nodes, err := s.storage.Read().Transactions.ListNodes(ctx, &transaction.NodeFilter{
		AccountID: &accountID,
		Range:     ledger.DateRange{From: from, To: to.Add(window)},
	})
	if err != nil {
		return ledger.MatchResult{}, err
	}

	pool := ledger.CandidatePool(nodes, accountID, s.opts.PayableMarker)
	result := ledger.MatchFIFO(records, pool, s.opts.Match)
	s.logger.WithFields(logrus.Fields{
		"accountID":  accountID,
		"records":    len(records),
		"candidates": len(pool),
		"matched":    len(result.Matches),
		"unmatched":  result.UnmatchedCount(),
	}).Info("ReconciliationService.match.complete")
	return result, nil
}

// LinkExternalRecords drops records that were linked before, matches the
// rest and writes each match as a single split child carrying the record's
// merchant and reference. Every link commits on its own; a failed link is
// reported and the batch carries on.
func (s *ReconciliationService) LinkExternalRecords(ctx context.Context, accountID uuid.UUID, records []ledger.ExternalRecord) (*LinkResult, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	linked, err := s.storage.Read().Transactions.LinkedReferences(ctx, accountID)
	if err != nil {
		return nil, err
	}
	kept, dropped := ledger.DropLinked(records, linked)

	matched, err := s.match(ctx, accountID, kept)
	if err != nil {
		return nil, err
	}

	result := &LinkResult{Unmatched: matched.Unmatched, AlreadyLinked: dropped}
	for _, m := range matched.Matches {
		description := strings.TrimSpace(m.Record.Merchant)
		if description == "" {
			description = m.Record.Reference
		}
		childIDs, err := s.splits.CreateSplits(ctx, m.TransactionID, []ledger.SplitCandidate{{
			Description: description,
			Amount:      m.Record.Amount,
			Type:        ledger.TypeForAmount(m.Record.Amount),
			Reference:   m.Record.Reference,
		}})
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"transactionID": m.TransactionID,
				"reference":     m.Record.Reference,
			}).Warn("ReconciliationService.LinkExternalRecords.linkFailed")
			result.Failed = append(result.Failed, LinkFailure{Record: m.Record, TransactionID: m.TransactionID, Err: err})
			continue
		}
		result.Linked = append(result.Linked, Link{Record: m.Record, TransactionID: m.TransactionID, ChildID: childIDs[0]})
	}

	if len(result.Linked) > 0 {
		s.publish(ctx, events.New(events.KindRecordsLinked, accountID, map[string]any{
			"linked":        len(result.Linked),
			"unmatched":     len(result.Unmatched),
			"failed":        len(result.Failed),
			"alreadyLinked": result.AlreadyLinked,
		}))
	}
	return result, nil
}
