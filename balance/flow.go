package balance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wpilcz/hledger-gains/journal"
)

// FlowKind labels how a flow was derived from its transaction.
type FlowKind int

const (
	// FlowConversion converts between a commodity and cash at an
	// annotated or inferred price, e.g. a purchase or a sale.
	FlowConversion FlowKind = iota
	// FlowTransfer moves a commodity between two accounts without
	// realizing anything, e.g. an in-kind transfer or an equity grant.
	FlowTransfer
	// FlowClose disposes of a position against the transaction's
	// consolidated cash legs.
	FlowClose
	// FlowResult absorbs a declared profit-and-loss leg; replay
	// recomputes gains itself and ignores the declared figure.
	FlowResult
	// FlowSettlement absorbs residual cash movement that settles the
	// transaction's trading activity.
	FlowSettlement
	// FlowDeclaration absorbs an equity or income leg that introduces
	// or retires a position on paper, e.g. an opening balance.
	FlowDeclaration
)

func (k FlowKind) String() string {
	switch k {
	case FlowConversion:
		return "conversion"
	case FlowTransfer:
		return "transfer"
	case FlowClose:
		return "close"
	case FlowResult:
		return "result"
	case FlowSettlement:
		return "settlement"
	case FlowDeclaration:
		return "declaration"
	default:
		return "unknown"
	}
}

// Flow is one explained value movement inside a transaction: Out leaves
// From and In arrives at To. For a conversion the two amounts differ in
// commodity; for a transfer they are the same.
type Flow struct {
	Kind FlowKind
	From journal.AccountName
	To   journal.AccountName
	// Out is what leaves From; nil when the flow only receives.
	Out *journal.Amount
	// In is what arrives at To; nil when the flow only disposes.
	In *journal.Amount
	// CostBasis is the per-unit price hint attached to the movement,
	// taken from a cost annotation when one is present.
	CostBasis   *journal.Amount
	Description string
}

// Decomposition is the result of explaining a transaction's postings.
type Decomposition struct {
	Flows []Flow
	// Effects maps each posting to its position effect, after transfer
	// pairs have been upgraded from open/close to transfer effects.
	Effects map[*journal.Posting]PositionEffect
}

// postingState tracks how much of a posting is still unexplained.
type postingState struct {
	posting   *journal.Posting
	effect    PositionEffect
	remaining decimal.Decimal
	isCash    bool
}

func (s *postingState) consumed() bool { return s.remaining.IsZero() }

// Decompose explains a balanced transaction as a set of flows.
//
// Postings are explained in passes: same-commodity pairs become
// transfers, cost-annotated postings become conversions against their
// cash counterparts, unannotated closes consume the remaining cash
// legs, and declared profit-and-loss or settlement residue is absorbed.
// Anything still unexplained afterwards is reported as an
// UnhandledRemainderError.
func Decompose(tx *journal.Transaction, view PositionView, cfg *journal.Config) (*Decomposition, error) {
	d := &Decomposition{Effects: make(map[*journal.Posting]PositionEffect)}

	var states []*postingState
	for _, p := range tx.Postings {
		effect := ClassifyPosting(p, view, cfg)
		d.Effects[p] = effect
		if p.Amount == nil {
			continue
		}
		states = append(states, &postingState{
			posting:   p,
			effect:    effect,
			remaining: p.Amount.Quantity,
			isCash:    cfg.IsCash(p.Amount.Commodity),
		})
	}

	d.pairTransfers(tx, states)
	d.convertAnnotated(tx, states, cfg)
	d.closeUnannotated(tx, states)
	d.openUnannotated(tx, states)
	d.absorbResidue(tx, states, cfg)

	var unhandled []UnhandledPostingDetail
	for _, s := range states {
		if !s.consumed() {
			unhandled = append(unhandled, UnhandledPostingDetail{
				Account:   s.posting.Account,
				Amount:    *s.posting.Amount,
				Remaining: journal.Amount{Quantity: s.remaining, Commodity: s.posting.Amount.Commodity},
			})
		}
	}
	if len(unhandled) > 0 {
		return nil, NewUnhandledRemainderError(tx, unhandled)
	}

	return d, nil
}

// pairTransfers matches opposite equal-quantity postings of the same
// commodity into transfer flows. A cost annotation on either leg
// becomes the transfer's basis hint.
func (d *Decomposition) pairTransfers(tx *journal.Transaction, states []*postingState) {
	for i, a := range states {
		if a.consumed() {
			continue
		}
		for _, b := range states[i+1:] {
			if b.consumed() {
				continue
			}
			if a.posting.Amount.Commodity != b.posting.Amount.Commodity {
				continue
			}
			if !a.remaining.Equal(b.remaining.Neg()) {
				continue
			}

			src, dst := a, b
			if src.remaining.IsPositive() {
				src, dst = dst, src
			}

			// A tracked commodity only transfers into an asset account.
			// A close mirrored by an inferred conversion leg is not a
			// transfer; leave it for the close pass.
			if !src.isCash && !dst.posting.Account.IsAsset() {
				continue
			}

			flow := Flow{
				Kind:        FlowTransfer,
				From:        src.posting.Account,
				To:          dst.posting.Account,
				Out:         src.posting.Amount.Abs(),
				In:          dst.posting.Amount.Abs(),
				CostBasis:   transferBasis(src.posting, dst.posting),
				Description: tx.Description,
			}
			d.Flows = append(d.Flows, flow)

			if !src.isCash {
				if src.effect.Closes() {
					d.Effects[src.posting] = TransferOut
					src.effect = TransferOut
				}
				if dst.effect.Opens() {
					d.Effects[dst.posting] = TransferIn
					dst.effect = TransferIn
				}
			}

			src.remaining = decimal.Zero
			dst.remaining = decimal.Zero
			break
		}
	}
}

func transferBasis(a, b *journal.Posting) *journal.Amount {
	for _, p := range []*journal.Posting{a, b} {
		if p.Cost != nil {
			per := p.Cost.PerUnit(p.Amount.Quantity)
			return &journal.Amount{Quantity: per, Commodity: p.Cost.Amount.Commodity}
		}
	}
	return nil
}

// convertAnnotated turns remaining cost-annotated postings into
// conversion flows, consuming a matching cash counterpart when one is
// present. Without a counterpart the configured conversion account
// absorbs the cash side.
func (d *Decomposition) convertAnnotated(tx *journal.Transaction, states []*postingState, cfg *journal.Config) {
	for _, s := range states {
		if s.consumed() || s.isCash || s.posting.Cost == nil {
			continue
		}

		qty := s.posting.Amount.Quantity
		value := s.posting.Cost.Total(qty)
		currency := s.posting.Cost.Amount.Commodity
		acquiring := qty.IsPositive()

		// An acquisition spends cash, a disposal receives it.
		want := value
		if acquiring {
			want = value.Neg()
		}
		counterpart := findCashCounterpart(states, currency, want)

		basis := s.posting.Cost.PerUnit(qty)
		flow := Flow{
			Kind:        FlowConversion,
			CostBasis:   &journal.Amount{Quantity: basis, Commodity: currency},
			Description: tx.Description,
		}
		valueAmt := &journal.Amount{Quantity: value, Commodity: currency}
		if acquiring {
			flow.To = s.posting.Account
			flow.In = s.posting.Amount.Abs()
			flow.Out = valueAmt
			flow.From = cfg.ConversionAccount
		} else {
			flow.From = s.posting.Account
			flow.Out = s.posting.Amount.Abs()
			flow.In = valueAmt
			flow.To = cfg.ConversionAccount
		}
		if counterpart != nil {
			counterpart.remaining = counterpart.remaining.Sub(want)
			if acquiring {
				flow.From = counterpart.posting.Account
			} else {
				flow.To = counterpart.posting.Account
			}
		}

		d.Flows = append(d.Flows, flow)
		s.remaining = decimal.Zero
	}
}

// findCashCounterpart picks the cash posting that settles a conversion
// worth want (signed): an exact match first, then any single posting
// with enough remaining in the right direction.
func findCashCounterpart(states []*postingState, currency journal.Commodity, want decimal.Decimal) *postingState {
	var partial *postingState
	for _, s := range states {
		if s.consumed() || !s.isCash || s.posting.Amount.Commodity != currency {
			continue
		}
		if s.posting.Account.IsResultAccount() {
			continue
		}
		if s.remaining.Equal(want) {
			return s
		}
		if partial == nil {
			if want.IsPositive() && s.remaining.GreaterThanOrEqual(want) {
				partial = s
			}
			if want.IsNegative() && s.remaining.LessThanOrEqual(want) {
				partial = s
			}
		}
	}
	return partial
}

// closeUnannotated explains remaining closes that carry no cost
// annotation by consuming the transaction's cash legs: a long close
// collects the positive cash, a short cover the negative cash.
func (d *Decomposition) closeUnannotated(tx *journal.Transaction, states []*postingState) {
	for _, s := range states {
		if s.consumed() || s.isCash || !s.effect.Closes() {
			continue
		}

		wantPositive := s.effect == CloseLong
		in, cashAccount := consumeCashLegs(states, wantPositive)

		flow := Flow{
			Kind:        FlowClose,
			From:        s.posting.Account,
			To:          cashAccount,
			Out:         s.posting.Amount.Abs(),
			In:          in,
			Description: tx.Description,
		}
		d.Flows = append(d.Flows, flow)
		s.remaining = decimal.Zero
	}
}

// openUnannotated explains remaining unannotated acquisitions, inferring
// the basis from the cash spent when a single currency paid for it.
func (d *Decomposition) openUnannotated(tx *journal.Transaction, states []*postingState) {
	for _, s := range states {
		if s.consumed() || s.isCash || !s.effect.Opens() {
			continue
		}

		out, cashAccount := consumeCashLegs(states, false)

		flow := Flow{
			Kind:        FlowConversion,
			From:        cashAccount,
			To:          s.posting.Account,
			Out:         out,
			In:          s.posting.Amount.Abs(),
			Description: tx.Description,
		}
		if out != nil && !s.posting.Amount.Quantity.IsZero() {
			per := out.Quantity.Div(s.posting.Amount.Quantity.Abs())
			flow.CostBasis = &journal.Amount{Quantity: per, Commodity: out.Commodity}
		}
		d.Flows = append(d.Flows, flow)
		s.remaining = decimal.Zero
	}
}

// consumeCashLegs drains the remaining unannotated cash postings held
// outside result accounts, in the requested direction. It returns their
// absolute sum and the account of the first leg, or nil when no leg
// matched or the legs disagree on currency.
func consumeCashLegs(states []*postingState, positive bool) (*journal.Amount, journal.AccountName) {
	var total decimal.Decimal
	var currency journal.Commodity
	var account journal.AccountName
	var consumed []*postingState

	for _, s := range states {
		if s.consumed() || !s.isCash || s.posting.Cost != nil {
			continue
		}
		if s.posting.Account.IsResultAccount() {
			continue
		}
		if positive != s.remaining.IsPositive() {
			continue
		}
		if currency != "" && currency != s.posting.Amount.Commodity {
			// Mixed currencies cannot be consolidated here; leave it
			// to the proceeds consolidator to report.
			return nil, ""
		}
		currency = s.posting.Amount.Commodity
		if account == "" {
			account = s.posting.Account
		}
		total = total.Add(s.remaining.Abs())
		consumed = append(consumed, s)
	}

	if len(consumed) == 0 {
		return nil, ""
	}
	for _, s := range consumed {
		s.remaining = decimal.Zero
	}
	return &journal.Amount{Quantity: total, Commodity: currency}, account
}

// absorbResidue explains the legs replay accounts for by itself:
// declared gains in result accounts, settlement cash residue in trading
// transactions, and equity or income declarations of a position.
func (d *Decomposition) absorbResidue(tx *journal.Transaction, states []*postingState, cfg *journal.Config) {
	hasActivity := false
	for _, f := range d.Flows {
		if f.Kind == FlowConversion || f.Kind == FlowClose {
			hasActivity = true
			break
		}
	}

	for _, s := range states {
		if s.consumed() {
			continue
		}

		switch {
		case s.posting.Account == cfg.ConversionAccount:
			// Synthetic residue added during balancing.
			kind := FlowDeclaration
			if s.isCash {
				kind = FlowSettlement
			}
			d.Flows = append(d.Flows, Flow{
				Kind:        kind,
				From:        s.posting.Account,
				Out:         s.posting.Amount.Abs(),
				Description: fmt.Sprintf("conversion residue: %s", tx.Description),
			})
			s.remaining = decimal.Zero
		case s.isCash && s.posting.Account.IsResultAccount():
			d.Flows = append(d.Flows, Flow{
				Kind:        FlowResult,
				From:        s.posting.Account,
				Out:         s.posting.Amount.Abs(),
				Description: fmt.Sprintf("declared result: %s", tx.Description),
			})
			s.remaining = decimal.Zero
		case s.isCash && hasActivity:
			d.Flows = append(d.Flows, Flow{
				Kind:        FlowSettlement,
				From:        s.posting.Account,
				Out:         s.posting.Amount.Abs(),
				Description: fmt.Sprintf("settlement: %s", tx.Description),
			})
			s.remaining = decimal.Zero
		case !s.isCash && (s.posting.Account.IsEquity() || s.posting.Account.IsIncome()):
			d.Flows = append(d.Flows, Flow{
				Kind:        FlowDeclaration,
				From:        s.posting.Account,
				Out:         s.posting.Amount.Abs(),
				Description: fmt.Sprintf("declaration: %s", tx.Description),
			})
			s.remaining = decimal.Zero
		}
	}
}
