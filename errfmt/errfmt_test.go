package errfmt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/wpilcz/hledger-gains/journal"
)

type positionalError struct {
	pos journal.SourceLocation
	msg string
}

func (e positionalError) Error() string                        { return e.msg }
func (e positionalError) GetPosition() journal.SourceLocation  { return e.pos }
func (e positionalError) GetTransaction() *journal.Transaction { return nil }

func failingTransaction() (*journal.Transaction, error) {
	tx := &journal.Transaction{
		Date:        journal.MustDate("2023-06-01"),
		Description: "Sell ABC",
		Postings: []*journal.Posting{
			{Account: "assets:stocks:abc", Amount: journal.NewAmount("-5", "ABC")},
			{Account: "assets:cash", Amount: journal.NewAmount("400", "USD")},
			{Account: "assets:cash", Amount: journal.NewAmount("300", "EUR")},
			{Account: "assets:bank", Amount: journal.NewAmount("1", "GLD")},
		},
	}
	_, err := tx.Balanced(nil)
	return tx, err
}

func TestTextFormatter_IncludesTransactionContext(t *testing.T) {
	_, err := failingTransaction()
	assert.Error(t, err)

	output := NewTextFormatter().Format(err)
	assert.Contains(t, output, "2023-06-01")
	assert.Contains(t, output, "Sell ABC")
	assert.Contains(t, output, "assets:stocks:abc")
	assert.Contains(t, output, "-5 ABC")
}

func TestTextFormatter_WithoutTransaction(t *testing.T) {
	tf := &TextFormatter{ShowTransaction: false}
	_, err := failingTransaction()
	assert.Error(t, err)

	output := tf.Format(err)
	assert.Equal(t, err.Error(), output)
}

func TestTextFormatter_FormatAllSeparatesWithBlankLines(t *testing.T) {
	tf := &TextFormatter{}
	errs := []error{errors.New("first"), errors.New("second")}

	assert.Equal(t, "first\n\nsecond", tf.FormatAll(errs))
	assert.Equal(t, "", tf.FormatAll(nil))
}

func TestJSONFormatter_EmitsLocationAndDate(t *testing.T) {
	err := positionalError{
		pos: journal.SourceLocation{Filename: "main.journal", Line: 42, Column: 3},
		msg: "something went wrong",
	}

	var decoded struct {
		Message  string `json:"message"`
		Filename string `json:"filename"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
	}
	assert.NoError(t, json.Unmarshal([]byte(NewJSONFormatter().Format(err)), &decoded))
	assert.Equal(t, "something went wrong", decoded.Message)
	assert.Equal(t, "main.journal", decoded.Filename)
	assert.Equal(t, 42, decoded.Line)
	assert.Equal(t, 3, decoded.Column)
}

func TestJSONFormatter_FormatAllIsAnArray(t *testing.T) {
	_, err := failingTransaction()
	assert.Error(t, err)

	output := NewJSONFormatter().FormatAll([]error{err})
	assert.True(t, strings.HasPrefix(output, "["), "got %s", output)

	var decoded []struct {
		Message string `json:"message"`
		Date    string `json:"date"`
	}
	assert.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, 1, len(decoded))
	assert.Equal(t, "2023-06-01", decoded[0].Date)
}

func TestFlatten_ExpandsAggregates(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	agg := &journal.ValidationErrors{Errors: []error{first, second}}

	flat := Flatten(agg)
	assert.Equal(t, 2, len(flat))
	assert.Equal(t, first, flat[0])
	assert.Equal(t, second, flat[1])

	assert.Equal(t, []error{first}, Flatten(first))
	assert.Zero(t, Flatten(nil))
}
