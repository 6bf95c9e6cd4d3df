// Package journal defines the transaction data model for an hledger-style
// journal: dated transactions made of account postings with decimal amounts,
// optional cost annotations, balance assertions, and tags.
//
// The package also implements transaction balancing (inferring a single
// elided amount and verifying that every commodity nets to zero once cost
// weights are included) and the configuration that classifies commodities
// into cash, crypto, stock, and option kinds.
package journal

import (
	"golang.org/x/exp/slices"
)

// Transactions is an ordered collection of transactions.
type Transactions []*Transaction

// Sort orders transactions by date, keeping the original order for
// transactions on the same day.
func (txs Transactions) Sort() {
	slices.SortStableFunc(txs, func(a, b *Transaction) int {
		da, db := a.Date, b.Date
		switch {
		case da == nil && db == nil:
			return 0
		case da == nil:
			return -1
		case db == nil:
			return 1
		case da.Before(db.Time):
			return -1
		case db.Before(da.Time):
			return 1
		default:
			return 0
		}
	})
}

// Sorted returns a date-ordered copy, leaving the receiver untouched.
func (txs Transactions) Sorted() Transactions {
	out := make(Transactions, len(txs))
	copy(out, txs)
	out.Sort()
	return out
}
