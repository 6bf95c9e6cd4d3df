package balance

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/wpilcz/hledger-gains/journal"
)

// Balance holds per-commodity quantities for an account.
// It stores amounts in a sorted slice for deterministic iteration and display.
type Balance struct {
	entries []*journal.Amount
}

// NewBalance creates an empty balance.
func NewBalance() *Balance {
	return &Balance{}
}

// Get returns the quantity for a commodity, or zero if not present.
func (b *Balance) Get(commodity journal.Commodity) decimal.Decimal {
	for _, e := range b.entries {
		if e.Commodity == commodity {
			return e.Quantity
		}
	}
	return decimal.Zero
}

// Set sets or updates the quantity for a commodity.
func (b *Balance) Set(commodity journal.Commodity, quantity decimal.Decimal) {
	for _, e := range b.entries {
		if e.Commodity == commodity {
			e.Quantity = quantity
			return
		}
	}

	b.entries = append(b.entries, &journal.Amount{Quantity: quantity, Commodity: commodity})
	slices.SortFunc(b.entries, func(a, b *journal.Amount) int {
		return strings.Compare(string(a.Commodity), string(b.Commodity))
	})
}

// Add adds a quantity to the commodity's balance.
func (b *Balance) Add(commodity journal.Commodity, quantity decimal.Decimal) {
	b.Set(commodity, b.Get(commodity).Add(quantity))
}

// Commodities returns the commodities present, in sorted order.
// Zero-quantity entries are kept; an account that sold out still shows
// the commodity it traded.
func (b *Balance) Commodities() []journal.Commodity {
	out := make([]journal.Commodity, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Commodity
	}
	return out
}

// Amounts returns the balance entries in sorted order.
func (b *Balance) Amounts() []*journal.Amount {
	out := make([]*journal.Amount, len(b.entries))
	copy(out, b.entries)
	return out
}

// IsZero reports whether every entry is zero.
func (b *Balance) IsZero() bool {
	for _, e := range b.entries {
		if !e.Quantity.IsZero() {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of the balance.
func (b *Balance) Copy() *Balance {
	out := &Balance{entries: make([]*journal.Amount, len(b.entries))}
	for i, e := range b.entries {
		amt := *e
		out.entries[i] = &amt
	}
	return out
}

func (b *Balance) String() string {
	if len(b.entries) == 0 {
		return "0"
	}
	parts := make([]string, len(b.entries))
	for i, e := range b.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
