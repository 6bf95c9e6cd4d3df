package balance_test

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/wpilcz/hledger-gains/balance"
	"github.com/wpilcz/hledger-gains/journal"
)

func TestConsolidateProceeds(t *testing.T) {
	cfg := journal.DefaultConfig()

	t.Run("sums legs on a single cash account", func(t *testing.T) {
		sale := tx("2023-06-01", "Sell",
			post("assets:stocks:abc", "-2", "ABC"),
			post("assets:broker:cash", "105.30", "USD"),
			post("assets:broker:cash", "105.30", "USD"),
		)
		proceeds, err := balance.ConsolidateProceeds(sale, "assets:stocks:abc", "ABC", false, cfg)
		assert.NoError(t, err)
		assertDecimal(t, "210.60", proceeds.Amount.Quantity)
		assert.Equal(t, "assets:broker:cash", string(proceeds.Account))
	})

	t.Run("excludes result accounts and the closing account", func(t *testing.T) {
		sale := tx("2023-06-01", "Sell",
			post("assets:stocks:abc", "-2", "ABC"),
			post("assets:broker:cash", "500", "USD"),
			post("expenses:fees", "1.17", "USD"),
			post("income:trading", "25", "USD"),
		)
		proceeds, err := balance.ConsolidateProceeds(sale, "assets:stocks:abc", "ABC", false, cfg)
		assert.NoError(t, err)
		assertDecimal(t, "500", proceeds.Amount.Quantity)
	})

	t.Run("no cash legs at all", func(t *testing.T) {
		move := tx("2023-06-01", "Move",
			post("assets:stocks:abc", "-2", "ABC"),
			post("assets:vault:abc", "2", "ABC"),
		)
		_, err := balance.ConsolidateProceeds(move, "assets:stocks:abc", "ABC", false, cfg)
		assert.Error(t, err)
		_, ok := err.(*balance.NoCashProceedsFoundError)
		assert.True(t, ok, "expected NoCashProceedsFoundError, got %T", err)
	})

	t.Run("two accounts with equal totals agree", func(t *testing.T) {
		sale := tx("2023-06-01", "Sell",
			post("assets:stocks:abc", "-10", "ABC"),
			post("assets:broker1:cash", "400", "USD"),
			post("assets:broker2:cash", "400", "USD"),
		)
		proceeds, err := balance.ConsolidateProceeds(sale, "assets:stocks:abc", "ABC", false, cfg)
		assert.NoError(t, err)
		assertDecimal(t, "400", proceeds.Amount.Quantity)
	})

	t.Run("two accounts with different totals are ambiguous", func(t *testing.T) {
		sale := tx("2023-06-01", "Sell",
			post("assets:stocks:abc", "-10", "ABC"),
			post("assets:broker1:cash", "400", "USD"),
			post("assets:broker2:cash", "450", "USD"),
		)
		_, err := balance.ConsolidateProceeds(sale, "assets:stocks:abc", "ABC", false, cfg)
		assert.Error(t, err)
		ambErr, ok := err.(*balance.AmbiguousProceedsError)
		assert.True(t, ok, "expected AmbiguousProceedsError, got %T", err)
		assert.Equal(t, 2, len(ambErr.Candidates))
		assert.True(t, strings.Contains(err.Error(), "Ambiguous cash proceeds"), "got: %s", err)
	})

	t.Run("mixed currencies are ambiguous", func(t *testing.T) {
		sale := tx("2023-06-01", "Sell",
			post("assets:stocks:abc", "-10", "ABC"),
			post("assets:broker:usd", "400", "USD"),
			post("assets:broker:eur", "370", "EUR"),
		)
		_, err := balance.ConsolidateProceeds(sale, "assets:stocks:abc", "ABC", false, cfg)
		assert.Error(t, err)
		_, ok := err.(*balance.AmbiguousProceedsError)
		assert.True(t, ok, "expected AmbiguousProceedsError, got %T", err)
	})

	t.Run("cover collects the negative legs", func(t *testing.T) {
		cover := tx("2023-06-01", "Cover",
			post("assets:stocks:meme", "4", "MEME"),
			post("assets:broker:cash", "-60", "USD"),
			post("assets:broker:cash", "25", "USD"),
		)
		proceeds, err := balance.ConsolidateProceeds(cover, "assets:stocks:meme", "MEME", true, cfg)
		assert.NoError(t, err)
		assertDecimal(t, "60", proceeds.Amount.Quantity)
	})
}

func TestBalanceSheet_AmbiguousProceedsAbortsReplay(t *testing.T) {
	txs := journal.Transactions{
		tx("2023-01-01", "Buy",
			cpost("assets:stocks:abc", "10", "ABC", journal.UnitCostOf("30", "USD")),
			post("assets:broker1:cash", "-300", "USD"),
		),
		tx("2023-06-01", "Sell with disagreeing cash legs",
			post("assets:stocks:abc", "-10", "ABC"),
			post("assets:broker1:cash", "400", "USD"),
			post("assets:broker2:cash", "450", "USD"),
		),
	}

	_, err := balance.FromTransactions(context.Background(), txs)
	assert.Error(t, err)
	_, ok := err.(*balance.AmbiguousProceedsError)
	assert.True(t, ok, "expected AmbiguousProceedsError, got %T", err)
}
