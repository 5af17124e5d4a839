package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cleared-dev/ledger-importer/internal/model"
)

const utf8BOM = "\ufeff"

// Source is one statement's rows and the extractor that understands them.
type Source struct {
	Name      string // used in error messages, may be empty
	Rows      [][]string
	Extractor Extractor
}

// ReadRows reads every CSV record from r. Records may have different
// lengths.
func ReadRows(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return records, nil
}

// Parse converts rows into transactions sorted by date. The first
// ext.SkipLines() rows are dropped. Same-day transactions keep their row
// order.
func Parse(rows [][]string, ext Extractor) ([]model.Transaction, error) {
	return ParseSources([]Source{{Rows: rows, Extractor: ext}})
}

// ParseSources parses several statements into a single list sorted by date.
// Skipping applies per source, and IDs continue across sources in the order
// given.
func ParseSources(sources []Source) ([]model.Transaction, error) {
	var txns []model.Transaction
	for _, src := range sources {
		skip := min(max(src.Extractor.SkipLines(), 0), len(src.Rows))
		for i, row := range src.Rows[skip:] {
			txn, err := rowToTransaction(row, src.Extractor)
			if err != nil {
				if src.Name != "" {
					return nil, fmt.Errorf("%s: row %d: %w", src.Name, skip+i+1, err)
				}
				return nil, fmt.Errorf("row %d: %w", skip+i+1, err)
			}
			txn.ID = len(txns) + 1
			txns = append(txns, txn)
		}
	}

	slices.SortStableFunc(txns, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return txns, nil
}

func rowToTransaction(row []string, ext Extractor) (model.Transaction, error) {
	date, err := ext.ParseDate(row)
	if err != nil {
		return model.Transaction{}, err
	}
	payee, err := ext.ParsePayee(row)
	if err != nil {
		return model.Transaction{}, err
	}
	postings, err := ext.ParsePostings(row)
	if err != nil {
		return model.Transaction{}, err
	}
	if len(postings) < 2 {
		return model.Transaction{}, fmt.Errorf("%w, got %d", ErrTooFewPostings, len(postings))
	}
	return model.Transaction{
		Date:     date,
		Payee:    payee,
		Postings: postings,
	}, nil
}
