package sale

import (
	"time"

	"github.com/foodvanpos/posd/internal/app/domain/cart"
)

// Record is an immutable snapshot of a completed transaction. Items never
// alias the cart they were copied from.
type Record struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Items     []cart.Line `json:"items"`
	Total     int         `json:"total"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Items = make([]cart.Line, len(r.Items))
	copy(out.Items, r.Items)
	return out
}

// ItemCount sums the quantities across the record's lines.
func (r Record) ItemCount() int {
	n := 0
	for _, l := range r.Items {
		n += l.Quantity
	}
	return n
}

// Summary aggregates a day's ledger for the summary screen.
type Summary struct {
	Sales     int `json:"sales"`
	Revenue   int `json:"revenue"`
	ItemsSold int `json:"items_sold"`
}

// Summarize folds the ledger into its headline totals.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Sales++
		s.Revenue += r.Total
		s.ItemsSold += r.ItemCount()
	}
	return s
}
