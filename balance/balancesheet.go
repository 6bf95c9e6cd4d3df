// Package balance replays journal transactions into a balance sheet:
// an account tree with own and rolled-up totals, FIFO lot tracking per
// account and commodity, and a log of realized capital gains.
//
// Replay is a left fold: starting from an empty sheet, each transaction
// is decomposed into flows, its postings update balances, opens create
// lots, and taxable closes consume lots oldest-first while realizing
// gains against consolidated cash proceeds.
package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wpilcz/hledger-gains/journal"
	"github.com/wpilcz/hledger-gains/telemetry"
)

// BalanceSheet is the state built up by replaying transactions.
type BalanceSheet struct {
	// Gains is the realized capital gains log, in replay order.
	Gains []CapitalGainResult

	accounts map[journal.AccountName]*Account
	roots    map[journal.AccountName]bool
	cfg      *journal.Config
	lotSeq   int
}

// NewBalanceSheet creates an empty sheet using the given config, or the
// defaults when cfg is nil.
func NewBalanceSheet(cfg *journal.Config) *BalanceSheet {
	if cfg == nil {
		cfg = journal.DefaultConfig()
	}
	return &BalanceSheet{
		accounts: make(map[journal.AccountName]*Account),
		roots:    make(map[journal.AccountName]bool),
		cfg:      cfg,
	}
}

// FromTransactions replays transactions in date order into a fresh
// sheet. The config is taken from the context; replay aborts on the
// first failing transaction.
func FromTransactions(ctx context.Context, txs journal.Transactions) (*BalanceSheet, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("replay %d transactions", len(txs)))
	defer timer.End()

	bs := NewBalanceSheet(journal.ConfigFromContext(ctx))
	for _, tx := range txs.Sorted() {
		if err := bs.Apply(ctx, tx); err != nil {
			return nil, err
		}
	}
	return bs, nil
}

// Apply folds one transaction into the sheet.
//
// The transaction is balanced and decomposed first; classification sees
// the lot state from before the transaction, so a buy in an account with
// open shorts covers them rather than opening a long. Postings then
// update balances, and opens and closes are processed in posting order.
func (bs *BalanceSheet) Apply(ctx context.Context, tx *journal.Transaction) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("apply %s %s", tx.Date, tx.Description))
	defer timer.End()

	balanced, err := tx.Balanced(bs.cfg)
	if err != nil {
		return err
	}

	decomp, err := Decompose(balanced, bs, bs.cfg)
	if err != nil {
		return err
	}

	for _, p := range balanced.Postings {
		if p.Assertion != nil && p.Amount == nil {
			bs.applyAssertion(balanced, p)
			continue
		}
		if p.Amount != nil {
			bs.applyPosting(p.Account, p.Amount)
		}
	}

	for _, p := range balanced.Postings {
		if p.Amount == nil {
			continue
		}
		switch decomp.Effects[p] {
		case OpenLong, OpenShort, TransferIn:
			bs.openLot(balanced, p, decomp)
		case CloseLong:
			if err := bs.closePosition(balanced, p, decomp, false); err != nil {
				return err
			}
		case CloseShort:
			if err := bs.closePosition(balanced, p, decomp, true); err != nil {
				return err
			}
		case TransferOut:
			if err := bs.transferOut(balanced, p); err != nil {
				return err
			}
		}
	}

	return nil
}

// applyAssertion reconciles a bare balance assertion: the account's own
// balance jumps to the asserted quantity. When the assertion carries a
// cost, the introduced units form a lot; without one no lot exists and
// a later sale will fail with a missing-basis hint.
func (bs *BalanceSheet) applyAssertion(tx *journal.Transaction, p *journal.Posting) {
	asserted := p.Assertion.Amount
	current := bs.ensureAccount(p.Account).OwnBalance(asserted.Commodity)
	delta := asserted.Quantity.Sub(current)
	if delta.IsZero() {
		return
	}
	bs.applyPosting(p.Account, &journal.Amount{Quantity: delta, Commodity: asserted.Commodity})

	if p.Assertion.Cost == nil || bs.cfg.IsCash(asserted.Commodity) || !delta.IsPositive() {
		return
	}
	per := p.Assertion.Cost.PerUnit(asserted.Quantity)
	bs.addLot(&Lot{
		Account:           p.Account,
		Commodity:         asserted.Commodity,
		AcquisitionDate:   tx.Date,
		OriginalQuantity:  delta,
		RemainingQuantity: delta,
		CostBasis:         &journal.Amount{Quantity: per, Commodity: p.Assertion.Cost.Amount.Commodity},
	})
}

func (bs *BalanceSheet) addLot(lot *Lot) {
	lot.seq = bs.lotSeq
	bs.lotSeq++
	bs.ensureAccount(lot.Account).addLot(lot)
}

// openLot creates a lot for an acquiring posting. The basis comes from
// the posting's cost annotation, falling back to the basis hint of the
// flow that feeds the account. A transferred-in position with no hint at
// all is a grant and gets a zero basis in the default currency.
func (bs *BalanceSheet) openLot(tx *journal.Transaction, p *journal.Posting, decomp *Decomposition) {
	lot := &Lot{
		Account:           p.Account,
		Commodity:         p.Amount.Commodity,
		AcquisitionDate:   tx.Date,
		OriginalQuantity:  p.Amount.Quantity,
		RemainingQuantity: p.Amount.Quantity,
		IsShort:           decomp.Effects[p] == OpenShort,
	}

	switch {
	case p.Cost != nil:
		per := p.Cost.PerUnit(p.Amount.Quantity)
		lot.CostBasis = &journal.Amount{Quantity: per, Commodity: p.Cost.Amount.Commodity}
	default:
		if hint := flowBasisFor(decomp, p.Account); hint != nil {
			lot.CostBasis = hint
		} else if decomp.Effects[p] == TransferIn {
			lot.CostBasis = &journal.Amount{Quantity: decimal.Zero, Commodity: bs.cfg.DefaultCurrency}
		}
	}

	if lot.IsShort {
		// A short lot's basis records the per-unit proceeds received
		// when the position was opened.
		if proceeds, err := ConsolidateProceeds(tx, p.Account, p.Amount.Commodity, false, bs.cfg); err == nil {
			per := proceeds.Amount.Quantity.Div(p.Amount.Quantity.Abs())
			lot.CostBasis = &journal.Amount{Quantity: per, Commodity: proceeds.Amount.Commodity}
		}
	}

	bs.addLot(lot)
}

func flowBasisFor(decomp *Decomposition, account journal.AccountName) *journal.Amount {
	for i := range decomp.Flows {
		f := &decomp.Flows[i]
		if f.To == account && f.CostBasis != nil {
			return f.CostBasis
		}
	}
	return nil
}

// closePosition realizes a taxable close: consolidate the cash side,
// consume lots FIFO, log the per-lot gains, and post the net result to
// the configured gains or losses account.
func (bs *BalanceSheet) closePosition(tx *journal.Transaction, p *journal.Posting, decomp *Decomposition, short bool) error {
	quantity := p.Amount.Quantity.Abs()

	proceeds, err := ConsolidateProceeds(tx, p.Account, p.Amount.Commodity, short, bs.cfg)
	if err != nil {
		if _, ok := err.(*NoCashProceedsFoundError); !ok {
			return err
		}
		// No cash settled this close. With a cost annotation the value
		// is declared and the close stays taxable; without one nothing
		// was realized and the lots reduce quietly.
		if p.Cost != nil {
			proceeds = &Proceeds{
				Amount: journal.Amount{
					Quantity:  p.Cost.Total(p.Amount.Quantity),
					Commodity: p.Cost.Amount.Commodity,
				},
			}
		}
	}

	results, err := bs.matchClose(closeRequest{
		tx:        tx,
		account:   p.Account,
		commodity: p.Amount.Commodity,
		quantity:  quantity,
		proceeds:  proceeds,
		short:     short,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	bs.Gains = append(bs.Gains, results...)

	net := decimal.Zero
	var currency journal.Commodity
	for _, r := range results {
		net = net.Add(r.GainLoss.Quantity)
		currency = r.GainLoss.Commodity
	}
	switch {
	case net.IsPositive():
		bs.applyPosting(bs.cfg.GainsAccount, &journal.Amount{Quantity: net, Commodity: currency})
	case net.IsNegative():
		bs.applyPosting(bs.cfg.LossesAccount, &journal.Amount{Quantity: net, Commodity: currency})
	}

	return nil
}

// transferOut consumes lots for an in-kind move without realizing
// anything. Moving more than the account holds is still an error.
func (bs *BalanceSheet) transferOut(tx *journal.Transaction, p *journal.Posting) error {
	_, err := bs.matchClose(closeRequest{
		tx:        tx,
		account:   p.Account,
		commodity: p.Amount.Commodity,
		quantity:  p.Amount.Quantity.Abs(),
	})
	return err
}
