// Package journal renders transactions as plain-text ledger entries.
package journal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/cleared-dev/ledger-importer/internal/model"
)

const (
	dateFormat = "2006/01/02"
	indent     = "    "
	gap        = "    "
)

// AmountFunc renders an amount; nil means model.Amount.String.
type AmountFunc func(model.Amount) string

// Format renders one entry:
//
//	2021/01/23    Description
//	    Assets:Checking    -150 €
//	    Expenses    150 €
func Format(t model.Transaction, amount AmountFunc) string {
	if amount == nil {
		amount = model.Amount.String
	}

	var b strings.Builder
	b.WriteString(t.Date.Format(dateFormat))
	b.WriteString(gap)
	b.WriteString(t.Payee)
	b.WriteByte('\n')
	for _, p := range t.Postings {
		b.WriteString(indent)
		b.WriteString(p.Account)
		b.WriteString(gap)
		b.WriteString(amount(p.Amount))
		b.WriteByte('\n')
	}
	return b.String()
}

// Write writes every entry followed by a blank line.
func Write(w io.Writer, txns []model.Transaction, amount AmountFunc) error {
	for i, t := range txns {
		if _, err := io.WriteString(w, Format(t, amount)+"\n"); err != nil {
			return fmt.Errorf("writing entry %d: %w", i+1, err)
		}
	}
	return nil
}

// Append adds entries to the journal at path, creating it if needed. A blank
// line always separates the existing content from the new entries.
func Append(path string, txns []model.Transaction, amount AmountFunc) error {
	sep, err := separator(path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, sep); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	if err := Write(f, txns, amount); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return f.Close()
}

// separator returns what must be written so the file ends with a blank line.
func separator(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading journal: %w", err)
	}

	switch {
	case len(data) == 0, bytes.HasSuffix(data, []byte("\n\n")):
		return "", nil
	case bytes.HasSuffix(data, []byte("\n")):
		return "\n", nil
	default:
		return "\n\n", nil
	}
}
