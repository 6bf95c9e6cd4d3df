package balance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wpilcz/hledger-gains/journal"
)

// Error types raised while replaying transactions into a balance sheet.

func errorLocation(tx *journal.Transaction) string {
	if tx == nil {
		return "<unknown>"
	}
	if tx.Location.Filename != "" {
		return fmt.Sprintf("%s:%d", tx.Location.Filename, tx.Location.Line)
	}
	if tx.Date != nil {
		return tx.Date.String()
	}
	return "<unknown>"
}

// UnhandledPostingDetail describes one posting the flow decomposer could
// not explain.
type UnhandledPostingDetail struct {
	Account   journal.AccountName
	Amount    journal.Amount
	Remaining journal.Amount
}

func (d UnhandledPostingDetail) String() string {
	return fmt.Sprintf("%s: posted %s, unexplained %s", d.Account, d.Amount.String(), d.Remaining.String())
}

// UnhandledRemainderError is returned when a transaction's postings
// cannot be fully explained as flows: value appeared or vanished
// without a counterparty.
type UnhandledRemainderError struct {
	Transaction *journal.Transaction
	Details     []UnhandledPostingDetail
}

func NewUnhandledRemainderError(tx *journal.Transaction, details []UnhandledPostingDetail) *UnhandledRemainderError {
	return &UnhandledRemainderError{Transaction: tx, Details: details}
}

func (e *UnhandledRemainderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: Transaction has unexplained remainders after flow decomposition:",
		errorLocation(e.Transaction))
	for _, d := range e.Details {
		fmt.Fprintf(&b, "\n  - %s", d.String())
	}
	return b.String()
}

func (e *UnhandledRemainderError) GetPosition() journal.SourceLocation {
	return e.Transaction.Location
}

func (e *UnhandledRemainderError) GetTransaction() *journal.Transaction {
	return e.Transaction
}

// NoCashProceedsFoundError is returned when a taxable close has no cash
// leg to consolidate proceeds from.
type NoCashProceedsFoundError struct {
	Transaction *journal.Transaction
	Account     journal.AccountName
	Commodity   journal.Commodity
}

func NewNoCashProceedsFoundError(tx *journal.Transaction, account journal.AccountName, commodity journal.Commodity) *NoCashProceedsFoundError {
	return &NoCashProceedsFoundError{Transaction: tx, Account: account, Commodity: commodity}
}

func (e *NoCashProceedsFoundError) Error() string {
	return fmt.Sprintf("%s: No cash proceeds found for close of %s in %s",
		errorLocation(e.Transaction), e.Commodity, e.Account)
}

func (e *NoCashProceedsFoundError) GetPosition() journal.SourceLocation {
	return e.Transaction.Location
}

func (e *NoCashProceedsFoundError) GetTransaction() *journal.Transaction {
	return e.Transaction
}

// AmbiguousProceedsError is returned when the cash legs of a close
// disagree: several candidate accounts with different totals, or more
// than one cash currency.
type AmbiguousProceedsError struct {
	Transaction *journal.Transaction
	Account     journal.AccountName
	Candidates  []journal.Amount
	Accounts    []journal.AccountName
}

func NewAmbiguousProceedsError(tx *journal.Transaction, account journal.AccountName, accounts []journal.AccountName, candidates []journal.Amount) *AmbiguousProceedsError {
	return &AmbiguousProceedsError{Transaction: tx, Account: account, Accounts: accounts, Candidates: candidates}
}

func (e *AmbiguousProceedsError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		account := ""
		if i < len(e.Accounts) {
			account = fmt.Sprintf(" (%s)", e.Accounts[i])
		}
		parts[i] = c.String() + account
	}
	return fmt.Sprintf("%s: Ambiguous cash proceeds for close in %s: candidates %s",
		errorLocation(e.Transaction), e.Account, strings.Join(parts, ", "))
}

func (e *AmbiguousProceedsError) GetPosition() journal.SourceLocation {
	return e.Transaction.Location
}

func (e *AmbiguousProceedsError) GetTransaction() *journal.Transaction {
	return e.Transaction
}

// InsufficientLotsError is returned when a close cannot be fully matched
// against the account's open lots. Matching consumes what it can first,
// so the listed lots show their post-match remaining quantities.
type InsufficientLotsError struct {
	Transaction *journal.Transaction
	// Account is the account the close was posted to.
	Account journal.AccountName
	// BaseAccount is the account whose lot queue was searched.
	BaseAccount journal.AccountName
	Commodity   journal.Commodity
	// ClosingQuantity is the full quantity the close asked for.
	ClosingQuantity decimal.Decimal
	// Unmatched is what was left after consuming every available lot.
	Unmatched decimal.Decimal
	// Own and Total are the base account's balances at the time of the
	// failure, after the posting itself was applied.
	Own   decimal.Decimal
	Total decimal.Decimal
	// Considered lists the lots the matcher looked at.
	Considered []*Lot
}

func (e *InsufficientLotsError) Error() string {
	if len(e.Considered) == 0 {
		return fmt.Sprintf(
			"%s: No lots found for %s to match sale of %s %s. "+
				"Possible reason: The initial balance for %s in this account might have been asserted without a cost basis. "+
				"Please ensure all opening balances for assets include a cost basis using '@@' (total cost) or '@' (per-unit cost).",
			errorLocation(e.Transaction), e.Account,
			e.ClosingQuantity.String(), e.Commodity, e.Commodity)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: Not enough open lots found for %s in %s.\n",
		errorLocation(e.Transaction), e.Commodity, e.Account)
	fmt.Fprintf(&b, "Remaining to match: %s %s\n", e.Unmatched.String(), e.Commodity)
	fmt.Fprintf(&b, "Account Details (%s for %s):\n", e.BaseAccount, e.Commodity)
	fmt.Fprintf(&b, "  Own: %s %s\n", e.Own.String(), e.Commodity)
	fmt.Fprintf(&b, "  Total: %s %s\n", e.Total.String(), e.Commodity)
	b.WriteString("Available Lots Considered:\n")
	for _, lot := range e.Considered {
		fmt.Fprintf(&b, "  - %s\n", lot.describe())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *InsufficientLotsError) GetPosition() journal.SourceLocation {
	return e.Transaction.Location
}

func (e *InsufficientLotsError) GetTransaction() *journal.Transaction {
	return e.Transaction
}

// MismatchedCommodityError is returned when a lot operation is asked to
// mix commodities, e.g. covering a USD-quoted short with EUR proceeds.
type MismatchedCommodityError struct {
	Transaction *journal.Transaction
	Expected    journal.Commodity
	Got         journal.Commodity
}

func NewMismatchedCommodityError(tx *journal.Transaction, expected, got journal.Commodity) *MismatchedCommodityError {
	return &MismatchedCommodityError{Transaction: tx, Expected: expected, Got: got}
}

func (e *MismatchedCommodityError) Error() string {
	return fmt.Sprintf("%s: Mismatched commodity: expected %s, got %s",
		errorLocation(e.Transaction), e.Expected, e.Got)
}

func (e *MismatchedCommodityError) GetPosition() journal.SourceLocation {
	return e.Transaction.Location
}

func (e *MismatchedCommodityError) GetTransaction() *journal.Transaction {
	return e.Transaction
}
