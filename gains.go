// Package hledgergains replays hledger-style journal transactions into
// a balance sheet with FIFO capital-gains tracking.
//
// The journal package holds the transaction data model and balancing;
// the balance package holds the replay engine. This package ties them
// together for callers that just want to fold a journal into a sheet:
//
//	sheet, err := hledgergains.Replay(ctx, transactions, nil)
//	if err != nil { ... }
//	for _, gain := range sheet.Gains { ... }
package hledgergains

import (
	"context"

	"github.com/wpilcz/hledger-gains/balance"
	"github.com/wpilcz/hledger-gains/journal"
)

// Replay folds transactions in date order into a fresh balance sheet.
// A nil config uses the defaults.
func Replay(ctx context.Context, txs journal.Transactions, cfg *journal.Config) (*balance.BalanceSheet, error) {
	if cfg == nil {
		cfg = journal.ConfigFromContext(ctx)
	}
	ctx = cfg.WithContext(ctx)
	return balance.FromTransactions(ctx, txs)
}
