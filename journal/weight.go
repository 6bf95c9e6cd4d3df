package journal

// Weight returns the posting's contribution to transaction balancing.
//
// A plain posting weighs its own amount. A posting with a cost annotation
// weighs its value in the cost commodity: "10 AAPL @ 150 USD" weighs
// 1500 USD, "-2 SOL @@ 105.30 USD" weighs -105.30 USD. This is what makes
// a conversion like a purchase balance against its cash leg.
func (p *Posting) Weight() *Amount {
	if p.Amount == nil {
		return nil
	}
	if p.Cost == nil {
		return p.Amount
	}
	total := p.Cost.Total(p.Amount.Quantity)
	if p.Amount.Quantity.IsNegative() {
		total = total.Neg()
	}
	return &Amount{Quantity: total, Commodity: p.Cost.Amount.Commodity}
}
