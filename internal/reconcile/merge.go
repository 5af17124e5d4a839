// Package reconcile collapses the two statement lines of one transfer into a
// single transaction.
package reconcile

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/ledger-importer/internal/importer"
	"github.com/cleared-dev/ledger-importer/internal/model"
)

// Pair records that Survivor absorbed Consumed. Both are transaction IDs.
type Pair struct {
	Survivor int
	Consumed int
}

// Result is the outcome of a merge.
type Result struct {
	Transactions []model.Transaction
	Pairs        []Pair
}

// Merger matches inflows against earlier outflows.
type Merger struct {
	match  importer.MatchFunc
	logger *log.Logger
}

// New returns a Merger using match, or importer.DefaultMatch when match is
// nil. A nil logger discards output.
func New(match importer.MatchFunc, logger *log.Logger) *Merger {
	if match == nil {
		match = importer.DefaultMatch
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Merger{match: match, logger: logger}
}

// Merge takes transactions sorted by date, oldest first. Every transaction
// with a positive primary amount looks for the earliest unconsumed
// transaction dated on or before it that matches. The first hit is consumed
// and its primary account becomes the inflow's counter account.
//
// Survivors keep their input order. txns itself is not modified.
func (m *Merger) Merge(txns []model.Transaction) Result {
	work := make([]model.Transaction, len(txns))
	for i, t := range txns {
		work[i] = t.Clone()
	}

	// Keyed by position in work, so equal-valued transactions stay distinct.
	consumed := make(map[int]bool)
	var pairs []Pair

	for i := range work {
		t := work[i]
		if consumed[i] || !t.Primary().Amount.IsPositive() {
			continue
		}

		for j, candidate := range work {
			if j == i || consumed[j] {
				continue
			}
			if candidate.Date.After(t.Date) {
				// Sorted input: nothing further can be on or before t.
				break
			}
			if !m.match(t, candidate) {
				continue
			}

			work[i].Postings[1].Account = candidate.Primary().Account
			consumed[j] = true
			pairs = append(pairs, Pair{Survivor: t.ID, Consumed: candidate.ID})
			m.logger.Debug("merged transactions",
				"survivor", t.ID,
				"consumed", candidate.ID,
				"payee", t.Payee,
				"counter", candidate.Primary().Account,
			)
			break
		}
	}

	survivors := make([]model.Transaction, 0, len(work)-len(consumed))
	for i, t := range work {
		if !consumed[i] {
			survivors = append(survivors, t)
		}
	}

	m.logger.Info("merge complete", "input", len(txns), "merged", len(pairs), "output", len(survivors))
	return Result{Transactions: survivors, Pairs: pairs}
}
