package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// ExternalRecord is a payment reported by an outside source (a PayPal export,
// a card statement). Amounts follow the expense-negative convention.
type ExternalRecord struct {
	Date      time.Time
	Merchant  string
	Amount    int64
	Reference string
}

// MatchOptions tunes the FIFO matcher.
type MatchOptions struct {
	WindowDays     int
	ToleranceCents int64
}

// DefaultMatchOptions is a five day settlement window with one cent of slack.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{WindowDays: 5, ToleranceCents: 1}
}

// Match pairs an external record with the ledger transaction that settled it.
type Match struct {
	Record        ExternalRecord
	TransactionID uuid.UUID
}

// MatchResult is the outcome of one matcher run.
type MatchResult struct {
	Matches   []Match
	Unmatched []ExternalRecord
}

// UnmatchedCount returns the number of records without a pairing.
func (r MatchResult) UnmatchedCount() int {
	return len(r.Unmatched)
}

// IsPayable reports whether description carries the payable marker.
func IsPayable(description, marker string) bool {
	if marker == "" {
		return true
	}
	return strings.Contains(strings.ToLower(description), strings.ToLower(marker))
}

// CandidatePool selects the transactions of accountID that may settle an
// external payment: marked payable, top level, and not split yet.
func CandidatePool(nodes []Node, accountID uuid.UUID, marker string) []Transaction {
	pool := make([]Transaction, 0, len(nodes))
	for _, n := range nodes {
		if n.AccountID != accountID || n.IsSplitChild() || n.IsSplitParent() {
			continue
		}
		if !IsPayable(n.Description, marker) {
			continue
		}
		pool = append(pool, n.Transaction)
	}
	return pool
}

// DropLinked removes records whose reference already sits on a linked child,
// so that re-importing the same export is a no-op.
func DropLinked(records []ExternalRecord, linked map[string]struct{}) (kept []ExternalRecord, dropped int) {
	kept = make([]ExternalRecord, 0, len(records))
	for _, r := range records {
		if r.Reference != "" {
			if _, ok := linked[r.Reference]; ok {
				dropped++
				continue
			}
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// MatchFIFO pairs each record, oldest first, with the oldest unused candidate
// whose absolute amount is within tolerance and whose date falls in
// [record.date, record.date + window]. A candidate is used at most once.
// Ties on date keep input order, so equal inputs give equal pairings.
func MatchFIFO(records []ExternalRecord, candidates []Transaction, opts MatchOptions) MatchResult {
	sortedRecords := slices.Clone(records)
	slices.SortStableFunc(sortedRecords, func(a, b ExternalRecord) int {
		return Day(a.Date).Compare(Day(b.Date))
	})
	pool := slices.Clone(candidates)
	slices.SortStableFunc(pool, func(a, b Transaction) int {
		return Day(a.Date).Compare(Day(b.Date))
	})

	used := make([]bool, len(pool))
	result := MatchResult{}
	for _, record := range sortedRecords {
		idx := firstEligible(record, pool, used, opts)
		if idx < 0 {
			result.Unmatched = append(result.Unmatched, record)
			continue
		}
		used[idx] = true
		result.Matches = append(result.Matches, Match{Record: record, TransactionID: pool[idx].ID})
	}
	return result
}

func firstEligible(record ExternalRecord, pool []Transaction, used []bool, opts MatchOptions) int {
	start := Day(record.Date)
	end := start.AddDate(0, 0, opts.WindowDays)
	want := abs(record.Amount)
	for i, c := range pool {
		if used[i] {
			continue
		}
		if abs(want-abs(c.Amount)) > opts.ToleranceCents {
			continue
		}
		day := Day(c.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		return i
	}
	return -1
}
