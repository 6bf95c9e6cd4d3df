package balance

import (
	"github.com/shopspring/decimal"

	"github.com/wpilcz/hledger-gains/journal"
)

// closeRequest asks the matcher to consume lots for one closing posting.
type closeRequest struct {
	tx        *journal.Transaction
	account   journal.AccountName
	commodity journal.Commodity
	// quantity is the positive magnitude to close.
	quantity decimal.Decimal
	// proceeds is the consolidated cash side of the close; nil for a
	// quiet close that realizes nothing, e.g. an in-kind transfer out.
	proceeds *Proceeds
	short    bool
}

// matchClose consumes open lots oldest-first until the close quantity is
// covered, returning one gain result per consumed lot slice. Proceeds
// are prorated over the close by matched quantity, with the last slice
// absorbing any division remainder so the slices always sum back to the
// consolidated amount.
//
// Lots are consumed before an insufficiency is reported; the error lists
// the lots with their post-match remaining quantities.
func (bs *BalanceSheet) matchClose(req closeRequest) ([]CapitalGainResult, error) {
	queue := bs.lotsForClose(req.account, req.commodity, req.short)

	var results []CapitalGainResult
	remaining := req.quantity
	allocated := decimal.Zero
	for _, lot := range queue {
		if remaining.IsZero() {
			break
		}
		matched := lot.Consume(remaining)
		if matched.IsZero() {
			continue
		}
		remaining = remaining.Sub(matched)

		if req.proceeds == nil {
			continue
		}

		currency := req.proceeds.Amount.Commodity
		basis := lot.CostPerUnit(currency)
		if basis.Commodity != currency {
			return results, NewMismatchedCommodityError(req.tx, currency, basis.Commodity)
		}

		// The final slice takes whatever proration has not handed out
		// yet, so the slices sum back to the consolidated amount even
		// when the fractions do not terminate.
		share := req.proceeds.Amount.Quantity.Sub(allocated)
		if !remaining.IsZero() {
			share = req.proceeds.Amount.Quantity.Mul(matched).Div(req.quantity)
		}
		allocated = allocated.Add(share)

		var proceeds, cost decimal.Decimal
		if req.short {
			// A cover pays `share` to buy back units sold earlier for
			// the lot's recorded per-unit proceeds.
			proceeds = basis.Quantity.Mul(matched)
			cost = share
		} else {
			proceeds = share
			cost = basis.Quantity.Mul(matched)
		}

		results = append(results, CapitalGainResult{
			Account:         req.account,
			Commodity:       req.commodity,
			Quantity:        matched,
			Proceeds:        journal.Amount{Quantity: proceeds, Commodity: currency},
			CostBasis:       journal.Amount{Quantity: cost, Commodity: currency},
			GainLoss:        journal.Amount{Quantity: proceeds.Sub(cost), Commodity: currency},
			AcquisitionDate: lot.AcquisitionDate,
			CloseDate:       req.tx.Date,
			IsShort:         req.short,
			Description:     req.tx.Description,
		})
	}

	if remaining.IsPositive() {
		base := req.account.Base()
		var own, total decimal.Decimal
		if acct := bs.accounts[base]; acct != nil {
			own = acct.OwnBalance(req.commodity)
			total = acct.TotalBalance(req.commodity)
		}
		return results, &InsufficientLotsError{
			Transaction:     req.tx,
			Account:         req.account,
			BaseAccount:     base,
			Commodity:       req.commodity,
			ClosingQuantity: req.quantity,
			Unmatched:       remaining,
			Own:             own,
			Total:           total,
			Considered:      queue,
		}
	}

	return results, nil
}
