package importer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger-importer/internal/model"
)

// DefaultChaseAccount books Chase rows when no account is given.
const DefaultChaseAccount = "Assets:Chase:Checking"

const (
	chaseDateFormat = "01/02/2006"
	chaseCommodity  = "$"
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// ChaseExtractor parses Chase bank checking CSV exports:
// Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
type ChaseExtractor struct {
	Account string
}

// NewChaseExtractor returns a Chase extractor booking to account, or to
// DefaultChaseAccount when account is empty.
func NewChaseExtractor(account string) *ChaseExtractor {
	if account == "" {
		account = DefaultChaseAccount
	}
	return &ChaseExtractor{Account: account}
}

// Format returns the preset name.
func (p *ChaseExtractor) Format() string { return "chase" }

// SkipLines drops the header row.
func (p *ChaseExtractor) SkipLines() int { return 1 }

// Delimiter returns a comma.
func (p *ChaseExtractor) Delimiter() rune { return ',' }

// ParseDate parses the posting date.
func (p *ChaseExtractor) ParseDate(row []string) (time.Time, error) {
	v, err := column(row, chaseColDate)
	if err != nil {
		return time.Time{}, err
	}
	date, err := time.Parse(chaseDateFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", v, err)
	}
	return date, nil
}

// ParsePayee returns the description column.
func (p *ChaseExtractor) ParsePayee(row []string) (string, error) {
	return column(row, chaseColDesc)
}

// ParsePostings books the signed amount to the checking account and its
// opposite to Income or Expenses.
func (p *ChaseExtractor) ParsePostings(row []string) ([]model.Posting, error) {
	v, err := column(row, chaseColAmount)
	if err != nil {
		return nil, err
	}
	quantity, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", v, err)
	}
	amount := model.NewAmount(quantity, chaseCommodity)

	counter := "Expenses"
	if amount.IsPositive() {
		counter = "Income"
	}
	return []model.Posting{
		{Account: p.Account, Amount: amount},
		{Account: counter, Amount: amount.Reverse()},
	}, nil
}

// FormatAmount always shows cents.
func (p *ChaseExtractor) FormatAmount(a model.Amount) string {
	return a.Quantity.StringFixed(2) + " " + a.Commodity
}

// WithAccount returns a copy booking to account.
func (p *ChaseExtractor) WithAccount(account string) Extractor {
	return NewChaseExtractor(account)
}
