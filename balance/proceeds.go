package balance

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/wpilcz/hledger-gains/journal"
)

// Proceeds is the consolidated cash side of a close: what the disposal
// brought in, or what covering a short cost.
type Proceeds struct {
	// Amount is a positive magnitude in the cash currency.
	Amount journal.Amount
	// Account is the cash account the legs were posted to.
	Account journal.AccountName
}

// ConsolidateProceeds collects the cash legs that settle a close posted
// to the closing account. For a long close it collects cash received,
// for a short cover cash paid.
//
// Legs in profit-and-loss accounts are excluded: they declare the result
// of the trade, which replay recomputes. Legs on the closing account
// itself (or its dated subaccounts) are excluded as well.
//
// When several cash accounts carry legs they must agree: equal totals
// consolidate to the common total, differing totals or mixed currencies
// return an AmbiguousProceedsError. No candidate legs at all return a
// NoCashProceedsFoundError.
func ConsolidateProceeds(tx *journal.Transaction, closing journal.AccountName, commodity journal.Commodity, cover bool, cfg *journal.Config) (*Proceeds, error) {
	type bucket struct {
		account  journal.AccountName
		currency journal.Commodity
		total    decimal.Decimal
	}
	totals := map[journal.AccountName]*bucket{}
	currencies := map[journal.Commodity]bool{}

	base := closing.Base()
	for _, p := range tx.Postings {
		if p.Amount == nil || !cfg.IsCash(p.Amount.Commodity) {
			continue
		}
		if p.Account.IsResultAccount() || p.Account == cfg.ConversionAccount {
			continue
		}
		if p.Account == closing || p.Account.Base() == base {
			continue
		}
		if cover != p.Amount.Quantity.IsNegative() {
			continue
		}

		b := totals[p.Account]
		if b == nil {
			b = &bucket{account: p.Account, currency: p.Amount.Commodity}
			totals[p.Account] = b
		}
		b.total = b.total.Add(p.Amount.Quantity.Abs())
		currencies[p.Amount.Commodity] = true
	}

	if len(totals) == 0 {
		return nil, NewNoCashProceedsFoundError(tx, closing, commodity)
	}

	buckets := make([]*bucket, 0, len(totals))
	for _, b := range totals {
		buckets = append(buckets, b)
	}
	slices.SortFunc(buckets, func(a, b *bucket) int {
		return strings.Compare(string(a.account), string(b.account))
	})

	ambiguous := len(currencies) > 1
	if !ambiguous {
		for _, b := range buckets[1:] {
			if !b.total.Equal(buckets[0].total) {
				ambiguous = true
				break
			}
		}
	}
	if ambiguous {
		accounts := make([]journal.AccountName, len(buckets))
		candidates := make([]journal.Amount, len(buckets))
		for i, b := range buckets {
			accounts[i] = b.account
			candidates[i] = journal.Amount{Quantity: b.total, Commodity: b.currency}
		}
		return nil, NewAmbiguousProceedsError(tx, closing, accounts, candidates)
	}

	return &Proceeds{
		Amount:  journal.Amount{Quantity: buckets[0].total, Commodity: buckets[0].currency},
		Account: buckets[0].account,
	}, nil
}
