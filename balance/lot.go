package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wpilcz/hledger-gains/journal"
)

// Lot is an acquisition of a tracked commodity, held until closes
// consume it. Lots are retained after full consumption so the history
// of an account stays auditable.
type Lot struct {
	// Account is the account the lot was posted to. It may be a dated
	// subaccount like "assets:stocks:aapl:20230101"; matching happens
	// on the base account.
	Account   journal.AccountName
	Commodity journal.Commodity
	// AcquisitionDate orders lots for FIFO matching.
	AcquisitionDate *journal.Date
	// OriginalQuantity is signed: positive for a long lot, negative for
	// a short lot.
	OriginalQuantity decimal.Decimal
	// RemainingQuantity tracks what closes have not yet consumed. It
	// carries the same sign as OriginalQuantity and moves toward zero.
	RemainingQuantity decimal.Decimal
	// CostBasis is the per-unit acquisition cost. For a short lot it
	// holds the per-unit proceeds received when the short was opened.
	CostBasis *journal.Amount
	// IsShort marks a short lot; only covering buys may consume it.
	IsShort bool

	// seq breaks FIFO ties between lots acquired on the same date.
	seq int
}

// Remaining returns the unconsumed quantity as a positive magnitude.
func (l *Lot) Remaining() decimal.Decimal {
	return l.RemainingQuantity.Abs()
}

// Exhausted reports whether the lot is fully consumed.
func (l *Lot) Exhausted() bool {
	return l.RemainingQuantity.IsZero()
}

// Consume reduces the lot by up to quantity units (a positive magnitude)
// and returns how many units were actually matched.
func (l *Lot) Consume(quantity decimal.Decimal) decimal.Decimal {
	matched := decimal.Min(l.Remaining(), quantity)
	if l.IsShort {
		l.RemainingQuantity = l.RemainingQuantity.Add(matched)
	} else {
		l.RemainingQuantity = l.RemainingQuantity.Sub(matched)
	}
	return matched
}

// CostPerUnit returns the per-unit basis, or zero in the given currency
// when no basis was recorded.
func (l *Lot) CostPerUnit(fallback journal.Commodity) journal.Amount {
	if l.CostBasis != nil {
		return *l.CostBasis
	}
	return journal.Amount{Quantity: decimal.Zero, Commodity: fallback}
}

// describe renders the lot for diagnostic listings.
func (l *Lot) describe() string {
	cost := "none"
	if l.CostBasis != nil {
		cost = l.CostBasis.String()
	}
	return fmt.Sprintf("Acq. Date: %s, Orig. Qty: %s %s, Rem. Qty: %s, Cost/Unit: %s",
		l.AcquisitionDate, l.OriginalQuantity.String(), l.Commodity,
		l.RemainingQuantity.String(), cost)
}
