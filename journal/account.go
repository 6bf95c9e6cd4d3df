package journal

import (
	"strings"
	"time"
)

// AccountName is a colon-separated hierarchical account name such as
// "assets:stocks:aapl" or "assets:crypto:BTC:20230101".
type AccountName string

// Top-level account categories.
const (
	RootAssets      = "assets"
	RootLiabilities = "liabilities"
	RootEquity      = "equity"
	RootIncome      = "income"
	RootExpenses    = "expenses"
)

// Parts splits the name into its segments.
func (a AccountName) Parts() []string {
	if a == "" {
		return nil
	}
	return strings.Split(string(a), ":")
}

// Root returns the top-level segment, lowercased.
func (a AccountName) Root() string {
	name := string(a)
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// Parent returns the name with the last segment removed,
// or "" when the account is a top-level account.
func (a AccountName) Parent() AccountName {
	if i := strings.LastIndexByte(string(a), ':'); i >= 0 {
		return a[:i]
	}
	return ""
}

// Leaf returns the last segment of the name.
func (a AccountName) Leaf() string {
	if i := strings.LastIndexByte(string(a), ':'); i >= 0 {
		return string(a[i+1:])
	}
	return string(a)
}

// IsAsset reports whether the account lives under the assets tree.
func (a AccountName) IsAsset() bool { return a.Root() == RootAssets }

// IsLiability reports whether the account lives under the liabilities tree.
func (a AccountName) IsLiability() bool { return a.Root() == RootLiabilities }

// IsEquity reports whether the account lives under the equity tree.
func (a AccountName) IsEquity() bool { return a.Root() == RootEquity }

// IsIncome reports whether the account lives under the income tree.
func (a AccountName) IsIncome() bool { return a.Root() == RootIncome }

// IsExpense reports whether the account lives under the expenses tree.
func (a AccountName) IsExpense() bool { return a.Root() == RootExpenses }

// IsResultAccount reports whether the account records profit and loss
// rather than holdings. Cash flowing to these accounts never counts as
// sale proceeds.
func (a AccountName) IsResultAccount() bool {
	return a.IsIncome() || a.IsExpense()
}

// DatedLeaf returns the acquisition date encoded in the last segment
// when the account uses the dated-subaccount convention
// ("assets:stocks:aapl:20230101"), or nil when the leaf is not a date.
func (a AccountName) DatedLeaf() *Date {
	leaf := a.Leaf()
	if len(leaf) != 8 {
		return nil
	}
	t, err := time.Parse("20060102", leaf)
	if err != nil {
		return nil
	}
	return &Date{Time: t}
}

// Base strips a dated leaf segment, if present. Lots held in dated
// subaccounts are matched against closes posted to the base account.
func (a AccountName) Base() AccountName {
	if a.DatedLeaf() != nil {
		return a.Parent()
	}
	return a
}

// Sub returns the name extended with one more segment.
func (a AccountName) Sub(segment string) AccountName {
	if a == "" {
		return AccountName(segment)
	}
	return AccountName(string(a) + ":" + segment)
}

func (a AccountName) String() string { return string(a) }
