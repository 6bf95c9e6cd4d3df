package balance

import (
	"github.com/wpilcz/hledger-gains/journal"
)

// PositionEffect classifies what a posting does to the position held in
// its account. The classification is closed: every posting with an
// amount falls into exactly one case.
type PositionEffect int

const (
	// NoEffect marks postings that do not touch a tracked position,
	// e.g. bare balance assertions.
	NoEffect PositionEffect = iota
	// CashMovement marks cash legs and result-account legs. They settle
	// trades but never form lots.
	CashMovement
	// OpenLong acquires units of a tracked commodity.
	OpenLong
	// CloseLong disposes of units held long.
	CloseLong
	// OpenShort sells units not held, creating a negative lot.
	OpenShort
	// CloseShort buys units back to cover an open short position.
	CloseShort
	// TransferOut moves units between own accounts; it consumes lots
	// but realizes no gain.
	TransferOut
	// TransferIn receives units moved between own accounts.
	TransferIn
)

func (e PositionEffect) String() string {
	switch e {
	case CashMovement:
		return "cash"
	case OpenLong:
		return "open-long"
	case CloseLong:
		return "close-long"
	case OpenShort:
		return "open-short"
	case CloseShort:
		return "close-short"
	case TransferOut:
		return "transfer-out"
	case TransferIn:
		return "transfer-in"
	default:
		return "none"
	}
}

// Opens reports whether the effect creates a new lot.
func (e PositionEffect) Opens() bool {
	return e == OpenLong || e == OpenShort || e == TransferIn
}

// Closes reports whether the effect consumes existing lots.
func (e PositionEffect) Closes() bool {
	return e == CloseLong || e == CloseShort || e == TransferOut
}

// PositionView exposes the lot state a classifier needs: whether an
// account currently holds open short lots of a commodity, which is what
// turns a buy into a cover. The balance sheet implements it; tests may
// substitute fixtures.
type PositionView interface {
	HasOpenShort(account journal.AccountName, commodity journal.Commodity) bool
}

// ClassifyPosting determines the position effect of a single posting,
// given the lot state that existed before the transaction.
//
// The rules, in order:
//   - no amount: NoEffect
//   - cash commodity, or a posting outside the assets tree: CashMovement
//   - positive quantity with open short lots in the account: CloseShort
//   - positive quantity otherwise: OpenLong
//   - negative quantity tagged as a short open: OpenShort
//   - negative quantity otherwise: CloseLong
//
// Transfer effects are not decided here; the flow decomposer upgrades a
// matched open/close pair into TransferIn/TransferOut when both legs of
// a same-commodity move are present.
func ClassifyPosting(p *journal.Posting, view PositionView, cfg *journal.Config) PositionEffect {
	if p.Amount == nil {
		return NoEffect
	}
	if cfg.IsCash(p.Amount.Commodity) {
		return CashMovement
	}
	if !p.Account.IsAsset() {
		return CashMovement
	}
	if p.Amount.Quantity.IsPositive() {
		if view != nil && view.HasOpenShort(p.Account.Base(), p.Amount.Commodity) {
			return CloseShort
		}
		return OpenLong
	}
	if cfg.IsShortOpen(p) {
		return OpenShort
	}
	return CloseLong
}
