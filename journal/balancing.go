package journal

import (
	"github.com/shopspring/decimal"
)

// Balanced returns a copy of the transaction with elided posting
// amounts filled in and residuals resolved, verifying that every
// commodity nets to zero once cost weights are included.
//
// Residual handling follows hledger's permissive conventions:
//
//   - One elided posting absorbs the single unbalanced commodity.
//   - Without elided postings, up to two unbalanced commodities are
//     absorbed by inferred postings on the conversion account; a sale
//     recorded as "-5 AAPL / +1000 USD" is a currency conversion, not
//     an error.
//   - Several elided postings are matched to the unbalanced commodities
//     in order when the counts agree.
//
// Anything beyond that is reported as a typed balancing error. A nil
// config falls back to the defaults.
func (t *Transaction) Balanced(cfg *Config) (*Transaction, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	out := *t
	out.Postings = make([]*Posting, len(t.Postings))
	for i, p := range t.Postings {
		out.Postings[i] = p.Clone()
	}

	var elided []*Posting
	sums := map[Commodity]decimal.Decimal{}
	var order []Commodity
	for _, p := range out.Postings {
		if p.Amount == nil {
			if p.Assertion == nil {
				elided = append(elided, p)
			}
			continue
		}
		w := p.Weight()
		if _, seen := sums[w.Commodity]; !seen {
			order = append(order, w.Commodity)
		}
		sums[w.Commodity] = sums[w.Commodity].Add(w.Quantity)
	}

	residual := residualCommodities(sums, order)

	if len(elided) == 0 {
		switch {
		case len(residual) == 0:
			return &out, nil
		case len(residual) <= 2:
			// Treat the residue as an implicit conversion.
			for _, c := range residual {
				out.Postings = append(out.Postings, &Posting{
					Account: cfg.ConversionAccount,
					Amount:  &Amount{Quantity: sums[c].Neg(), Commodity: c},
					Comment: "inferred by equity conversion",
				})
			}
			return &out, nil
		default:
			c := residual[0]
			return nil, NewImbalanceError(&out, c, sums[c])
		}
	}

	if len(elided) == 1 {
		switch len(residual) {
		case 0:
			if len(order) == 0 {
				return nil, NewNoCommoditiesElidedError(&out)
			}
			// Balanced without the elided posting; it moves nothing.
			elided[0].Amount = &Amount{Quantity: decimal.Zero, Commodity: order[0]}
		case 1:
			c := residual[0]
			elided[0].Amount = &Amount{Quantity: sums[c].Neg(), Commodity: c}
		default:
			return nil, NewUnresolvedElidedAmountError(&out, residual)
		}
		return &out, nil
	}

	// Several elided postings.
	if len(elided) == len(out.Postings) {
		return nil, NewNoCommoditiesElidedError(&out)
	}
	switch {
	case len(residual) == 0:
		if len(order) == 0 {
			return nil, NewNoCommoditiesElidedError(&out)
		}
		for _, p := range elided {
			p.Amount = &Amount{Quantity: decimal.Zero, Commodity: order[0]}
		}
	case len(residual) == len(elided):
		for i, p := range elided {
			c := residual[i]
			p.Amount = &Amount{Quantity: sums[c].Neg(), Commodity: c}
		}
	default:
		return nil, NewAmbiguousElidedAmountError(&out, len(elided))
	}

	return &out, nil
}

// residualCommodities returns the unbalanced commodities in
// first-appearance order.
func residualCommodities(sums map[Commodity]decimal.Decimal, order []Commodity) []Commodity {
	var out []Commodity
	for _, c := range order {
		if !sums[c].IsZero() {
			out = append(out, c)
		}
	}
	return out
}
