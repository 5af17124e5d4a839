package importer

import (
	"errors"
	"time"

	"github.com/cleared-dev/ledger-importer/internal/model"
)

// ErrTooFewPostings is returned when an extractor yields fewer than two
// postings for a row.
var ErrTooFewPostings = errors.New("transaction needs at least two postings")

// Extractor turns one CSV row into the parts of a transaction. One
// implementation exists per bank export layout.
type Extractor interface {
	SkipLines() int
	Delimiter() rune
	ParseDate(row []string) (time.Time, error)
	ParsePayee(row []string) (string, error)
	ParsePostings(row []string) ([]model.Posting, error)
}

// Matcher is implemented by extractors that decide themselves whether two
// transactions are the two sides of one transfer.
type Matcher interface {
	TransactionsMatch(a, b model.Transaction) bool
}

// AmountFormatter is implemented by extractors that render amounts
// differently from model.Amount.String.
type AmountFormatter interface {
	FormatAmount(a model.Amount) string
}

// AccountOverrider is implemented by extractors whose primary account can be
// rebound, so one layout can serve statements of several accounts.
type AccountOverrider interface {
	WithAccount(account string) Extractor
}

// MatchFunc reports whether b is the other side of a.
type MatchFunc func(a, b model.Transaction) bool

// DefaultMatch matches transactions whose primary amounts are exact opposites
// booked on different primary accounts.
func DefaultMatch(a, b model.Transaction) bool {
	pa, pb := a.Primary(), b.Primary()
	return pa.Amount.Equal(pb.Amount.Reverse()) && pa.Account != pb.Account
}

// MatchFor returns ext's own match predicate, or DefaultMatch.
func MatchFor(ext Extractor) MatchFunc {
	if m, ok := ext.(Matcher); ok {
		return m.TransactionsMatch
	}
	return DefaultMatch
}

// FormatFor returns ext's amount formatter, or model.Amount.String.
func FormatFor(ext Extractor) func(model.Amount) string {
	if f, ok := ext.(AmountFormatter); ok {
		return f.FormatAmount
	}
	return model.Amount.String
}
