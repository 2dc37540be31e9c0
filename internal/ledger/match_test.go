package ledger

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
)

func payable(date time.Time, amount int64) Transaction {
	return Transaction{ID: newID(), Date: date, Description: "PAYPAL *EUROPE", Amount: amount, Type: TypeForAmount(amount)}
}

func record(date time.Time, amount int64) ExternalRecord {
	return ExternalRecord{Date: date, Merchant: "Shop", Amount: amount}
}

// -- MatchFIFO tests --

func TestMatchFIFO_WindowBoundary(t *testing.T) {
	ext := record(day(2025, 5, 1), -2599)

	onEdge := MatchFIFO([]ExternalRecord{ext}, []Transaction{payable(day(2025, 5, 6), -2599)}, DefaultMatchOptions())
	assert.Len(t, onEdge.Matches, 1, "date + 5 days is inside the window")

	pastEdge := MatchFIFO([]ExternalRecord{ext}, []Transaction{payable(day(2025, 5, 7), -2599)}, DefaultMatchOptions())
	assert.Empty(t, pastEdge.Matches, "date + 6 days is outside the window")
	assert.Equal(t, 1, pastEdge.UnmatchedCount())
}

func TestMatchFIFO_CandidateBeforeRecordNotMatched(t *testing.T) {
	result := MatchFIFO(
		[]ExternalRecord{record(day(2025, 5, 3), -1000)},
		[]Transaction{payable(day(2025, 5, 2), -1000)},
		DefaultMatchOptions(),
	)
	assert.Empty(t, result.Matches)
}

func TestMatchFIFO_AmountTolerance(t *testing.T) {
	opts := DefaultMatchOptions()

	oneCent := MatchFIFO([]ExternalRecord{record(day(2025, 5, 1), -1000)}, []Transaction{payable(day(2025, 5, 2), -1001)}, opts)
	assert.Len(t, oneCent.Matches, 1)

	twoCents := MatchFIFO([]ExternalRecord{record(day(2025, 5, 1), -1000)}, []Transaction{payable(day(2025, 5, 2), -1002)}, opts)
	assert.Empty(t, twoCents.Matches)
}

func TestMatchFIFO_ComparesAbsoluteAmounts(t *testing.T) {
	result := MatchFIFO(
		[]ExternalRecord{record(day(2025, 5, 1), -1500)},
		[]Transaction{payable(day(2025, 5, 1), 1500)},
		DefaultMatchOptions(),
	)
	assert.Len(t, result.Matches, 1)
}

func TestMatchFIFO_EarliestCandidateWins(t *testing.T) {
	later := payable(day(2025, 5, 4), -1000)
	earlier := payable(day(2025, 5, 2), -1000)

	result := MatchFIFO([]ExternalRecord{record(day(2025, 5, 1), -1000)}, []Transaction{later, earlier}, DefaultMatchOptions())

	assert.Len(t, result.Matches, 1)
	assert.Equal(t, earlier.ID, result.Matches[0].TransactionID)
}

func TestMatchFIFO_OneToOne(t *testing.T) {
	records := []ExternalRecord{
		record(day(2025, 5, 1), -1000),
		record(day(2025, 5, 1), -1000),
		record(day(2025, 5, 2), -1000),
	}
	candidates := []Transaction{
		payable(day(2025, 5, 2), -1000),
		payable(day(2025, 5, 3), -1000),
	}

	result := MatchFIFO(records, candidates, DefaultMatchOptions())

	assert.Len(t, result.Matches, 2)
	assert.Equal(t, 1, result.UnmatchedCount())
	seen := make(map[uuid.UUID]bool)
	for _, m := range result.Matches {
		assert.False(t, seen[m.TransactionID], "transaction matched twice")
		seen[m.TransactionID] = true
	}
}

func TestMatchFIFO_ProcessesRecordsOldestFirst(t *testing.T) {
	only := payable(day(2025, 5, 5), -1000)
	newer := record(day(2025, 5, 4), -1000)
	older := record(day(2025, 5, 1), -1000)
	newer.Merchant = "newer"
	older.Merchant = "older"

	result := MatchFIFO([]ExternalRecord{newer, older}, []Transaction{only}, DefaultMatchOptions())

	assert.Len(t, result.Matches, 1)
	assert.Equal(t, "older", result.Matches[0].Record.Merchant)
	assert.Equal(t, "newer", result.Unmatched[0].Merchant)
}

func TestMatchFIFO_Deterministic(t *testing.T) {
	records := []ExternalRecord{
		record(day(2025, 5, 1), -1000),
		record(day(2025, 5, 1), -1000),
		record(day(2025, 5, 3), -2000),
	}
	candidates := []Transaction{
		payable(day(2025, 5, 2), -1000),
		payable(day(2025, 5, 2), -1000),
		payable(day(2025, 5, 3), -2000),
	}

	first := MatchFIFO(records, candidates, DefaultMatchOptions())
	second := MatchFIFO(records, candidates, DefaultMatchOptions())

	assert.Equal(t, first, second)
	assert.Equal(t, candidates[0].ID, first.Matches[0].TransactionID, "date ties keep input order")
	assert.Equal(t, candidates[1].ID, first.Matches[1].TransactionID)
}

func TestMatchFIFO_DoesNotReorderInputs(t *testing.T) {
	records := []ExternalRecord{record(day(2025, 5, 9), -1), record(day(2025, 5, 1), -1)}
	candidates := []Transaction{payable(day(2025, 5, 9), -1), payable(day(2025, 5, 1), -1)}

	MatchFIFO(records, candidates, DefaultMatchOptions())

	assert.Equal(t, day(2025, 5, 9), records[0].Date)
	assert.Equal(t, day(2025, 5, 9), candidates[0].Date)
}

// -- CandidatePool / DropLinked tests --

func TestCandidatePool_Filters(t *testing.T) {
	account := newID()
	ok := payable(day(2025, 5, 1), -1000)
	ok.AccountID = account
	ok.Description = "Incasso PayPal Europe"

	otherAccount := payable(day(2025, 5, 1), -1000)
	otherAccount.AccountID = newID()

	notPayable := payable(day(2025, 5, 1), -1000)
	notPayable.AccountID = account
	notPayable.Description = "Albert Heijn"

	split := payable(day(2025, 5, 1), -1000)
	split.AccountID = account

	child := childOf(split, -1000, TransactionTypeDebit, nil)
	child.Description = "paypal child"

	nodes := []Node{
		{Transaction: ok},
		{Transaction: otherAccount},
		{Transaction: notPayable},
		{Transaction: split, Children: []Transaction{child}},
		{Transaction: child},
	}

	pool := CandidatePool(nodes, account, "paypal")
	assert.Len(t, pool, 1)
	assert.Equal(t, ok.ID, pool[0].ID)
}

func TestDropLinked_RemovesKnownReferences(t *testing.T) {
	known := record(day(2025, 5, 1), -100)
	known.Reference = "TX-1"
	fresh := record(day(2025, 5, 1), -100)
	fresh.Reference = "TX-2"
	noRef := record(day(2025, 5, 1), -100)

	kept, dropped := DropLinked([]ExternalRecord{known, fresh, noRef}, map[string]struct{}{"TX-1": {}})

	assert.Equal(t, 1, dropped)
	assert.Equal(t, []ExternalRecord{fresh, noRef}, kept)
}
