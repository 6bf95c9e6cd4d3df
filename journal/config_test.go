package journal_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/wpilcz/hledger-gains/journal"
)

func TestConfig_DefaultClassification(t *testing.T) {
	cfg := journal.DefaultConfig()

	tests := []struct {
		commodity journal.Commodity
		kind      journal.CommodityKind
	}{
		{"USD", journal.KindCash},
		{"PLN", journal.KindCash},
		{"BTC", journal.KindCrypto},
		{"SOL", journal.KindCrypto},
		// Listed as crypto even though it matches no ticker pattern.
		{"PseudoUSD", journal.KindCrypto},
		{"AAPL", journal.KindStock},
		{"BRK.B", journal.KindStock},
		{"TSLA260116C200", journal.KindOption},
		{"AAPLC150", journal.KindOption},
		{"lowercase", journal.KindUnknown},
		{"TOOLONGNAME", journal.KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, cfg.Kind(tt.commodity), "commodity %s", tt.commodity)
	}
}

func TestConfig_ListsTakePrecedenceOverPatterns(t *testing.T) {
	cfg := journal.DefaultConfig()

	// USD matches the stock pattern but the cash list wins.
	assert.True(t, cfg.IsCash("USD"))
	assert.False(t, cfg.IsStock("USD"))
	// ADA matches the stock pattern but the crypto list wins.
	assert.True(t, cfg.IsCrypto("ADA"))
	assert.False(t, cfg.IsStock("ADA"))
}

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	cfg, err := journal.ParseConfig([]byte(`
cash_commodities: [GBP, CHF]
gains_account: income:gains
short_tag: {name: position, value: short}
`))
	assert.NoError(t, err)

	assert.True(t, cfg.IsCash("GBP"))
	assert.False(t, cfg.IsCash("USD"))
	assert.Equal(t, journal.AccountName("income:gains"), cfg.GainsAccount)
	// Untouched fields keep their defaults.
	assert.Equal(t, journal.AccountName("expenses:capital_losses"), cfg.LossesAccount)
	assert.True(t, cfg.IsCrypto("BTC"))
	assert.Equal(t, journal.Tag{Name: "position", Value: "short"}, cfg.ShortTag)
}

func TestParseConfig_RejectsMalformedYAML(t *testing.T) {
	_, err := journal.ParseConfig([]byte("cash_commodities: {not: [a, list"))
	assert.Error(t, err)
}

func TestConfig_IsShortOpen(t *testing.T) {
	cfg := journal.DefaultConfig()

	tagged := &journal.Posting{
		Account: "assets:broker:gme",
		Amount:  journal.NewAmount("-11", "GME"),
		Tags:    []journal.Tag{{Name: "type", Value: "short"}},
	}
	assert.True(t, cfg.IsShortOpen(tagged))

	plain := &journal.Posting{
		Account: "assets:broker:gme",
		Amount:  journal.NewAmount("-11", "GME"),
	}
	assert.False(t, cfg.IsShortOpen(plain))
}

func TestConfig_ContextRoundTrip(t *testing.T) {
	cfg := journal.DefaultConfig()
	cfg.GainsAccount = "income:gains"

	ctx := cfg.WithContext(context.Background())
	assert.Equal(t, journal.AccountName("income:gains"), journal.ConfigFromContext(ctx).GainsAccount)

	// Without a config in the context the defaults apply.
	fallback := journal.ConfigFromContext(context.Background())
	assert.Equal(t, journal.AccountName("income:capital_gains"), fallback.GainsAccount)
}
