package journal

import (
	"github.com/mitchellh/hashstructure/v2"
)

// Posting is a single account movement within a transaction.
type Posting struct {
	Account AccountName
	// Amount is nil for an elided posting; Balanced fills it in.
	Amount *Amount
	// Cost is the optional "@"/"@@" price annotation.
	Cost *Cost
	// Assertion is the optional "= amount" balance assertion.
	Assertion *BalanceAssertion
	Status    Status
	Tags      []Tag
	Comment   string
	Location  SourceLocation
}

// HasTag reports whether the posting carries the given tag. An empty
// value matches any value for that tag name.
func (p *Posting) HasTag(name, value string) bool {
	for _, t := range p.Tags {
		if t.Name == name && (value == "" || t.Value == value) {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy with its own Amount, so balancing can
// fill elided amounts without mutating the caller's posting.
func (p *Posting) Clone() *Posting {
	out := *p
	if p.Amount != nil {
		amt := *p.Amount
		out.Amount = &amt
	}
	return &out
}

// Transaction is a dated group of postings.
type Transaction struct {
	Date        *Date
	Status      Status
	Code        string
	Description string
	Postings    []*Posting
	Tags        []Tag
	Comment     string
	Location    SourceLocation
}

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(name, value string) bool {
	for _, tag := range t.Tags {
		if tag.Name == name && (value == "" || tag.Value == value) {
			return true
		}
	}
	return false
}

// AssertionsOnly reports whether every posting is a bare balance
// assertion. Such transactions declare opening balances and are exempt
// from the two-posting minimum.
func (t *Transaction) AssertionsOnly() bool {
	if len(t.Postings) == 0 {
		return false
	}
	for _, p := range t.Postings {
		if p.Assertion == nil || p.Amount != nil {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants that hold before balancing:
// a date is present and the transaction has enough postings to balance.
func (t *Transaction) Validate() error {
	if t.Date == nil {
		return NewMissingDateError(t)
	}
	if len(t.Postings) < 2 && !t.AssertionsOnly() {
		return NewInsufficientPostingsError(t)
	}
	return nil
}

// transactionIdentity is the subset of fields that identify a transaction
// for deduplication across journal includes.
type transactionIdentity struct {
	Date        string
	Description string
	Postings    []postingIdentity
}

type postingIdentity struct {
	Account  string
	Quantity string
	Currency string
}

// Key returns a stable hash identifying the transaction by its date,
// description, and postings. Source locations and comments do not
// participate, so the same transaction loaded from two files collides.
func (t *Transaction) Key() (uint64, error) {
	id := transactionIdentity{Description: t.Description}
	if t.Date != nil {
		id.Date = t.Date.String()
	}
	for _, p := range t.Postings {
		pid := postingIdentity{Account: string(p.Account)}
		if p.Amount != nil {
			pid.Quantity = p.Amount.Quantity.String()
			pid.Currency = string(p.Amount.Commodity)
		}
		id.Postings = append(id.Postings, pid)
	}
	return hashstructure.Hash(id, hashstructure.FormatV2, nil)
}
