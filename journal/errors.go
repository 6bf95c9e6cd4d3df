package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Error types for transaction validation and balancing.

// errorLocation formats the standard "filename:line:" prefix, falling
// back to the transaction date when the source location is unknown.
func errorLocation(pos SourceLocation, date *Date) string {
	if pos.Filename != "" {
		return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
	}
	if date != nil {
		return date.String()
	}
	return "<unknown>"
}

// MissingDateError is returned when a transaction has no date.
type MissingDateError struct {
	Transaction *Transaction
	Pos         SourceLocation
}

func NewMissingDateError(tx *Transaction) *MissingDateError {
	return &MissingDateError{Transaction: tx, Pos: tx.Location}
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("%s: Transaction has no date", errorLocation(e.Pos, nil))
}

func (e *MissingDateError) GetPosition() SourceLocation { return e.Pos }

func (e *MissingDateError) GetTransaction() *Transaction { return e.Transaction }

// InsufficientPostingsError is returned when a transaction has fewer than
// two postings and is not an assertion-only opening.
type InsufficientPostingsError struct {
	Transaction *Transaction
	Pos         SourceLocation
}

func NewInsufficientPostingsError(tx *Transaction) *InsufficientPostingsError {
	return &InsufficientPostingsError{Transaction: tx, Pos: tx.Location}
}

func (e *InsufficientPostingsError) Error() string {
	return fmt.Sprintf("%s: Transaction must have at least two postings",
		errorLocation(e.Pos, e.Transaction.Date))
}

func (e *InsufficientPostingsError) GetPosition() SourceLocation { return e.Pos }

func (e *InsufficientPostingsError) GetTransaction() *Transaction { return e.Transaction }

// ImbalanceError is returned when a commodity does not net to zero and
// no posting is left to absorb the residual.
type ImbalanceError struct {
	Transaction *Transaction
	Commodity   Commodity
	Residual    decimal.Decimal
	Pos         SourceLocation
}

func NewImbalanceError(tx *Transaction, commodity Commodity, residual decimal.Decimal) *ImbalanceError {
	return &ImbalanceError{Transaction: tx, Commodity: commodity, Residual: residual, Pos: tx.Location}
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s: Transaction does not balance: %s %s left over",
		errorLocation(e.Pos, e.Transaction.Date), e.Residual.String(), e.Commodity)
}

func (e *ImbalanceError) GetPosition() SourceLocation { return e.Pos }

func (e *ImbalanceError) GetTransaction() *Transaction { return e.Transaction }

func (e *ImbalanceError) GetCommodity() Commodity { return e.Commodity }

// AmbiguousElidedAmountError is returned when more than one posting
// elides its amount, so the residual cannot be attributed.
type AmbiguousElidedAmountError struct {
	Transaction *Transaction
	Count       int
	Pos         SourceLocation
}

func NewAmbiguousElidedAmountError(tx *Transaction, count int) *AmbiguousElidedAmountError {
	return &AmbiguousElidedAmountError{Transaction: tx, Count: count, Pos: tx.Location}
}

func (e *AmbiguousElidedAmountError) Error() string {
	return fmt.Sprintf("%s: %d postings elide their amount, at most one may",
		errorLocation(e.Pos, e.Transaction.Date), e.Count)
}

func (e *AmbiguousElidedAmountError) GetPosition() SourceLocation { return e.Pos }

func (e *AmbiguousElidedAmountError) GetTransaction() *Transaction { return e.Transaction }

// UnresolvedElidedAmountError is returned when the elided posting would
// have to absorb residuals in more than one commodity.
type UnresolvedElidedAmountError struct {
	Transaction *Transaction
	Commodities []Commodity
	Pos         SourceLocation
}

func NewUnresolvedElidedAmountError(tx *Transaction, commodities []Commodity) *UnresolvedElidedAmountError {
	return &UnresolvedElidedAmountError{Transaction: tx, Commodities: commodities, Pos: tx.Location}
}

func (e *UnresolvedElidedAmountError) Error() string {
	names := make([]string, len(e.Commodities))
	for i, c := range e.Commodities {
		names[i] = string(c)
	}
	return fmt.Sprintf("%s: Elided amount is ambiguous, multiple commodities unbalanced: %s",
		errorLocation(e.Pos, e.Transaction.Date), strings.Join(names, ", "))
}

func (e *UnresolvedElidedAmountError) GetPosition() SourceLocation { return e.Pos }

func (e *UnresolvedElidedAmountError) GetTransaction() *Transaction { return e.Transaction }

// NoCommoditiesElidedError is returned when a posting elides its amount
// but no other posting provides a commodity to infer it from.
type NoCommoditiesElidedError struct {
	Transaction *Transaction
	Pos         SourceLocation
}

func NewNoCommoditiesElidedError(tx *Transaction) *NoCommoditiesElidedError {
	return &NoCommoditiesElidedError{Transaction: tx, Pos: tx.Location}
}

func (e *NoCommoditiesElidedError) Error() string {
	return fmt.Sprintf("%s: Elided amount cannot be inferred, no other posting carries an amount",
		errorLocation(e.Pos, e.Transaction.Date))
}

func (e *NoCommoditiesElidedError) GetPosition() SourceLocation { return e.Pos }

func (e *NoCommoditiesElidedError) GetTransaction() *Transaction { return e.Transaction }

// ValidationErrors wraps multiple validation errors.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap returns the individual errors for errors.Is/As matching.
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
