// Package errfmt renders replay and validation errors in multiple
// formats. It separates presentation from domain logic: the journal and
// balance packages return typed errors, and this package formats them
// as plain text for terminals or as structured JSON for APIs.
package errfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/wpilcz/hledger-gains/journal"
)

// Formatter formats errors for output.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// locatable is implemented by errors that know where in the journal
// they came from.
type locatable interface {
	GetPosition() journal.SourceLocation
	error
}

// transactional is implemented by errors carrying their transaction.
type transactional interface {
	GetTransaction() *journal.Transaction
}

// TextFormatter renders errors as plain text. Error messages already
// carry their "filename:line:" prefix; the formatter adds the failing
// transaction as context when one is attached.
type TextFormatter struct {
	// ShowTransaction includes a rendering of the failing transaction
	// below the message.
	ShowTransaction bool
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{ShowTransaction: true}
}

// Format formats a single error.
func (tf *TextFormatter) Format(err error) string {
	var b strings.Builder
	b.WriteString(err.Error())

	if !tf.ShowTransaction {
		return b.String()
	}
	var te transactional
	if errors.As(err, &te) {
		if tx := te.GetTransaction(); tx != nil {
			b.WriteString("\n")
			writeTransaction(&b, tx)
		}
	}
	return b.String()
}

// FormatAll formats multiple errors, separated by blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

func writeTransaction(b *strings.Builder, tx *journal.Transaction) {
	b.WriteString("   ")
	if tx.Date != nil {
		b.WriteString(tx.Date.String())
	}
	if tx.Status != journal.Unmarked {
		b.WriteString(" " + tx.Status.String())
	}
	if tx.Description != "" {
		b.WriteString(" " + tx.Description)
	}
	for _, p := range tx.Postings {
		b.WriteString("\n     " + string(p.Account))
		if p.Amount != nil {
			b.WriteString("  " + p.Amount.String())
		}
		if p.Cost != nil {
			b.WriteString(" " + p.Cost.String())
		}
	}
}

// JSONFormatter renders errors as structured JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonError is the wire shape of a formatted error.
type jsonError struct {
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Date     string `json:"date,omitempty"`
}

func toJSONError(err error) jsonError {
	je := jsonError{Message: err.Error()}
	var le locatable
	if errors.As(err, &le) {
		pos := le.GetPosition()
		je.Filename = pos.Filename
		je.Line = pos.Line
		je.Column = pos.Column
	}
	var te transactional
	if errors.As(err, &te) {
		if tx := te.GetTransaction(); tx != nil && tx.Date != nil {
			je.Date = tx.Date.String()
		}
	}
	return je
}

// Format formats a single error as a JSON object.
func (jf *JSONFormatter) Format(err error) string {
	data, merr := json.Marshal(toJSONError(err))
	if merr != nil {
		return `{"message":"error formatting failed"}`
	}
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	out := make([]jsonError, len(errs))
	for i, err := range errs {
		out[i] = toJSONError(err)
	}
	data, merr := json.Marshal(out)
	if merr != nil {
		return "[]"
	}
	return string(data)
}

// Flatten expands aggregate errors (such as *journal.ValidationErrors)
// into their individual errors for formatting.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if agg, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range agg.Unwrap() {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}
