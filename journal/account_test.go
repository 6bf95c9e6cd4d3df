package journal_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/wpilcz/hledger-gains/journal"
)

func TestAccountName_Parts(t *testing.T) {
	name := journal.AccountName("assets:stocks:aapl")
	assert.Equal(t, []string{"assets", "stocks", "aapl"}, name.Parts())
	assert.Equal(t, "assets", name.Root())
	assert.Equal(t, "aapl", name.Leaf())
	assert.Equal(t, journal.AccountName("assets:stocks"), name.Parent())
	assert.Equal(t, journal.AccountName(""), journal.AccountName("assets").Parent())
}

func TestAccountName_RootIsCaseInsensitive(t *testing.T) {
	assert.True(t, journal.AccountName("Assets:Cash").IsAsset())
	assert.True(t, journal.AccountName("income:salary").IsIncome())
	assert.True(t, journal.AccountName("expenses:food").IsExpense())
	assert.False(t, journal.AccountName("equity:conversion").IsAsset())
}

func TestAccountName_ResultAccounts(t *testing.T) {
	assert.True(t, journal.AccountName("income:capital_gains").IsResultAccount())
	assert.True(t, journal.AccountName("expenses:capital_losses").IsResultAccount())
	assert.False(t, journal.AccountName("assets:cash").IsResultAccount())
	assert.False(t, journal.AccountName("equity:opening").IsResultAccount())
}

func TestAccountName_DatedLeaf(t *testing.T) {
	dated := journal.AccountName("assets:crypto:BTC:20230115")
	date := dated.DatedLeaf()
	assert.True(t, date != nil)
	assert.Equal(t, "2023-01-15", date.String())
	assert.Equal(t, journal.AccountName("assets:crypto:BTC"), dated.Base())

	// Leaves that merely look numeric do not count.
	assert.Zero(t, journal.AccountName("assets:crypto:BTC:20231399").DatedLeaf())
	assert.Zero(t, journal.AccountName("assets:stocks:aapl").DatedLeaf())
	assert.Equal(t, journal.AccountName("assets:stocks:aapl"), journal.AccountName("assets:stocks:aapl").Base())
}

func TestAccountName_Sub(t *testing.T) {
	base := journal.AccountName("assets:broker")
	assert.Equal(t, journal.AccountName("assets:broker:BTC"), base.Sub("BTC"))
	assert.Equal(t, journal.AccountName("assets"), journal.AccountName("").Sub("assets"))
}
