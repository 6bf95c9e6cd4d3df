package journal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a decimal quantity of a single commodity.
type Amount struct {
	Quantity  decimal.Decimal
	Commodity Commodity
}

// NewAmount builds an amount from a decimal string.
// It panics on a malformed quantity and is intended for fixtures and tests.
func NewAmount(quantity string, commodity Commodity) *Amount {
	return &Amount{Quantity: decimal.RequireFromString(quantity), Commodity: commodity}
}

// AmountOf builds an amount from an already-parsed quantity.
func AmountOf(quantity decimal.Decimal, commodity Commodity) *Amount {
	return &Amount{Quantity: quantity, Commodity: commodity}
}

// Neg returns the amount with its sign flipped.
func (a *Amount) Neg() *Amount {
	return &Amount{Quantity: a.Quantity.Neg(), Commodity: a.Commodity}
}

// Abs returns the amount with a non-negative quantity.
func (a *Amount) Abs() *Amount {
	return &Amount{Quantity: a.Quantity.Abs(), Commodity: a.Commodity}
}

// IsZero reports whether the quantity is zero.
func (a *Amount) IsZero() bool { return a.Quantity.IsZero() }

// Equal reports whether both amounts have the same commodity and quantity.
func (a *Amount) Equal(other *Amount) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Commodity == other.Commodity && a.Quantity.Equal(other.Quantity)
}

func (a *Amount) String() string {
	return fmt.Sprintf("%s %s", a.Quantity.String(), a.Commodity)
}

// CostKind distinguishes the two hledger cost annotations.
type CostKind int

const (
	// UnitCost is the "@ price" form: a per-unit price.
	UnitCost CostKind = iota
	// TotalCost is the "@@ total" form: a total price for the whole posting.
	TotalCost
)

// Cost is a price annotation attached to a posting, either per unit ("@")
// or for the posting's full quantity ("@@").
type Cost struct {
	Kind   CostKind
	Amount Amount
}

// UnitCostOf builds an "@ price" annotation.
func UnitCostOf(quantity string, commodity Commodity) *Cost {
	return &Cost{Kind: UnitCost, Amount: *NewAmount(quantity, commodity)}
}

// TotalCostOf builds an "@@ total" annotation.
func TotalCostOf(quantity string, commodity Commodity) *Cost {
	return &Cost{Kind: TotalCost, Amount: *NewAmount(quantity, commodity)}
}

// PerUnit returns the per-unit price for a posting of the given quantity.
// For a total cost the price is prorated over the absolute quantity.
func (c *Cost) PerUnit(quantity decimal.Decimal) decimal.Decimal {
	if c.Kind == UnitCost {
		return c.Amount.Quantity
	}
	abs := quantity.Abs()
	if abs.IsZero() {
		return decimal.Zero
	}
	return c.Amount.Quantity.Div(abs)
}

// Total returns the full price for a posting of the given quantity.
func (c *Cost) Total(quantity decimal.Decimal) decimal.Decimal {
	if c.Kind == TotalCost {
		return c.Amount.Quantity
	}
	return c.Amount.Quantity.Mul(quantity.Abs())
}

func (c *Cost) String() string {
	if c.Kind == TotalCost {
		return fmt.Sprintf("@@ %s", c.Amount.String())
	}
	return fmt.Sprintf("@ %s", c.Amount.String())
}

// BalanceAssertion is an hledger "= amount" posting annotation asserting
// the account's balance after the posting. An optional cost records the
// basis of the asserted position ("= 10 SOL @@ 2000 USD").
type BalanceAssertion struct {
	Amount Amount
	Cost   *Cost
}
