package ledger

import (
	"sort"

	"github.com/gofrs/uuid/v5"
)

// AdjustedAmount is the part of t that is not already carried by a
// categorized child. Same-polarity children are peeled off the parent,
// opposite-polarity children (refunds) are added back.
func AdjustedAmount(t Transaction, children []Transaction) int64 {
	adjusted := t.Amount
	for _, c := range children {
		if !c.IsCategorized() {
			continue
		}
		if c.Type == t.Type {
			adjusted -= c.Amount
		} else {
			adjusted += c.Amount
		}
	}
	return adjusted
}

// AdjustedAmount returns the node's adjusted amount.
func (n Node) AdjustedAmount() int64 {
	return AdjustedAmount(n.Transaction, n.Children)
}

// Included reports whether the node takes part in totals: childless
// transactions always do, split parents only while something is left over.
func (n Node) Included() bool {
	return len(n.Children) == 0 || n.AdjustedAmount() != 0
}

// Contribution is the node's signed share of a DEBIT-oriented total.
// Excluded nodes contribute zero.
func (n Node) Contribution() int64 {
	if !n.Included() {
		return 0
	}
	adjusted := n.AdjustedAmount()
	if n.Type == TransactionTypeDebit {
		return adjusted
	}
	return -adjusted
}

// CategorySet selects categorized transactions. The empty set selects every
// categorized transaction; uncategorized ones are never selected.
type CategorySet map[uuid.UUID]struct{}

// NewCategorySet builds a set from ids.
func NewCategorySet(ids ...uuid.UUID) CategorySet {
	set := make(CategorySet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether a transaction with the given category is selected.
func (s CategorySet) Contains(categoryID *uuid.UUID) bool {
	if categoryID == nil {
		return false
	}
	if len(s) == 0 {
		return true
	}
	_, ok := s[*categoryID]
	return ok
}

// IDs returns the set members in a stable order.
func (s CategorySet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func selected(n Node, categories CategorySet, r DateRange) bool {
	return categories.Contains(n.CategoryID) && r.Contains(n.Date)
}

// Total sums the contributions of the nodes selected by categories and r.
func Total(nodes []Node, categories CategorySet, r DateRange) int64 {
	var total int64
	for _, n := range nodes {
		if selected(n, categories, r) {
			total += n.Contribution()
		}
	}
	return total
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	CategoryID uuid.UUID
	Total      int64
}

// Breakdown groups Total by category. Rows are ordered by absolute total,
// largest first, then by category id. Categories whose every node is excluded
// do not appear.
func Breakdown(nodes []Node, categories CategorySet, r DateRange) []CategoryAmount {
	totals := make(map[uuid.UUID]int64)
	for _, n := range nodes {
		if !selected(n, categories, r) || !n.Included() {
			continue
		}
		totals[*n.CategoryID] += n.Contribution()
	}

	rows := make([]CategoryAmount, 0, len(totals))
	for id, total := range totals {
		rows = append(rows, CategoryAmount{CategoryID: id, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := abs(rows[i].Total), abs(rows[j].Total)
		if ai != aj {
			return ai > aj
		}
		return rows[i].CategoryID.String() < rows[j].CategoryID.String()
	})
	return rows
}

// MonthlyTotals returns Total for each month, in the order given.
func MonthlyTotals(nodes []Node, categories CategorySet, months []Month) []int64 {
	totals := make([]int64, len(months))
	for i, m := range months {
		totals[i] = Total(nodes, categories, m.Range())
	}
	return totals
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
