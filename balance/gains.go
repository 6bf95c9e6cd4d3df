package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wpilcz/hledger-gains/journal"
)

// CapitalGainResult records one lot (or lot slice) consumed by a taxable
// close. A close that spans several lots produces one result per lot.
type CapitalGainResult struct {
	// Account is the account the close was posted to.
	Account   journal.AccountName
	Commodity journal.Commodity
	// Quantity is the matched magnitude, always positive.
	Quantity decimal.Decimal
	// Proceeds is what the matched units brought in: the consolidated
	// cash prorated over the close for a long sale, or the short-open
	// proceeds for a cover.
	Proceeds journal.Amount
	// CostBasis is what the matched units cost: acquisition cost for a
	// long lot, prorated cover cost for a short.
	CostBasis journal.Amount
	// GainLoss is Proceeds minus CostBasis.
	GainLoss        journal.Amount
	AcquisitionDate *journal.Date
	CloseDate       *journal.Date
	IsShort         bool
	Description     string
}

func (r CapitalGainResult) String() string {
	kind := "long"
	if r.IsShort {
		kind = "short"
	}
	return fmt.Sprintf("%s %s %s %s: proceeds %s, basis %s, gain/loss %s (acquired %s, closed %s)",
		kind, r.Quantity.String(), r.Commodity, r.Account,
		r.Proceeds.String(), r.CostBasis.String(), r.GainLoss.String(),
		r.AcquisitionDate, r.CloseDate)
}
