package balance

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/wpilcz/hledger-gains/journal"
)

// Account is a node in the account tree. Nodes reference their parent
// and children by account name, so the tree has no cyclic pointers and
// accounts can be compared and copied as plain values of the sheet.
type Account struct {
	Name journal.AccountName
	// Parent is the name of the parent account, "" for a root.
	Parent journal.AccountName
	// Own holds quantities posted directly to this account.
	Own *Balance
	// Total holds Own plus the totals of all descendants.
	Total *Balance

	children map[string]journal.AccountName
	lots     map[journal.Commodity][]*Lot
}

func newAccount(name journal.AccountName) *Account {
	return &Account{
		Name:     name,
		Parent:   name.Parent(),
		Own:      NewBalance(),
		Total:    NewBalance(),
		children: make(map[string]journal.AccountName),
		lots:     make(map[journal.Commodity][]*Lot),
	}
}

// OwnBalance returns the quantity posted directly to the account.
func (a *Account) OwnBalance(commodity journal.Commodity) decimal.Decimal {
	return a.Own.Get(commodity)
}

// TotalBalance returns the account's quantity including all descendants.
func (a *Account) TotalBalance(commodity journal.Commodity) decimal.Decimal {
	return a.Total.Get(commodity)
}

// Children returns the child account names in sorted order.
func (a *Account) Children() []journal.AccountName {
	out := make([]journal.AccountName, 0, len(a.children))
	for _, name := range a.children {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Lots returns the account's lots for a commodity in insertion order,
// including exhausted ones.
func (a *Account) Lots(commodity journal.Commodity) []*Lot {
	return a.lots[commodity]
}

func (a *Account) addLot(lot *Lot) {
	a.lots[lot.Commodity] = append(a.lots[lot.Commodity], lot)
}

// Account returns the named account, or nil when it was never posted to.
func (bs *BalanceSheet) Account(name journal.AccountName) *Account {
	return bs.accounts[name]
}

// Accounts returns every account name on the sheet in sorted order.
func (bs *BalanceSheet) Accounts() []journal.AccountName {
	out := make([]journal.AccountName, 0, len(bs.accounts))
	for name := range bs.accounts {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Roots returns the top-level account names in sorted order.
func (bs *BalanceSheet) Roots() []journal.AccountName {
	out := make([]journal.AccountName, 0, len(bs.roots))
	for name := range bs.roots {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// ensureAccount returns the named account, creating it and any missing
// ancestors on first use.
func (bs *BalanceSheet) ensureAccount(name journal.AccountName) *Account {
	if acct, ok := bs.accounts[name]; ok {
		return acct
	}

	parts := name.Parts()
	var current journal.AccountName
	var acct *Account
	for _, part := range parts {
		parent := current
		current = current.Sub(part)
		acct = bs.accounts[current]
		if acct == nil {
			acct = newAccount(current)
			bs.accounts[current] = acct
			if parent == "" {
				bs.roots[current] = true
			} else {
				bs.accounts[parent].children[part] = current
			}
		}
	}
	return acct
}

// applyPosting adds the amount to the account's own balance and to the
// total balance of the account and every ancestor.
func (bs *BalanceSheet) applyPosting(name journal.AccountName, amount *journal.Amount) {
	acct := bs.ensureAccount(name)
	acct.Own.Add(amount.Commodity, amount.Quantity)
	for cursor := acct; cursor != nil; cursor = bs.accounts[cursor.Parent] {
		cursor.Total.Add(amount.Commodity, amount.Quantity)
	}
}

// lotsForClose gathers the open lots a close posted to account may
// consume: lots held on the base account itself plus lots held in its
// dated subaccounts, ordered by acquisition date then insertion.
func (bs *BalanceSheet) lotsForClose(account journal.AccountName, commodity journal.Commodity, short bool) []*Lot {
	base := account.Base()
	acct := bs.accounts[base]
	if acct == nil {
		return nil
	}

	var out []*Lot
	collect := func(a *Account) {
		for _, lot := range a.lots[commodity] {
			if lot.IsShort == short {
				out = append(out, lot)
			}
		}
	}
	collect(acct)
	for _, childName := range acct.Children() {
		child := bs.accounts[childName]
		if child != nil && childName.DatedLeaf() != nil {
			collect(child)
		}
	}

	slices.SortStableFunc(out, func(a, b *Lot) int {
		da, db := a.AcquisitionDate, b.AcquisitionDate
		if da != nil && db != nil && !da.Equal(db) {
			if da.Before(db.Time) {
				return -1
			}
			return 1
		}
		return a.seq - b.seq
	})
	return out
}

// HasOpenShort reports whether the account holds unconsumed short lots
// of the commodity. Implements PositionView.
func (bs *BalanceSheet) HasOpenShort(account journal.AccountName, commodity journal.Commodity) bool {
	for _, lot := range bs.lotsForClose(account, commodity, true) {
		if !lot.Exhausted() {
			return true
		}
	}
	return false
}
