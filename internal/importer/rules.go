package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger-importer/internal/config"
	"github.com/cleared-dev/ledger-importer/internal/model"
)

// RulesExtractor implements Extractor from declarative config.Rules.
type RulesExtractor struct {
	rules   config.Rules
	counter []counterRule
}

type counterRule struct {
	re      *regexp.Regexp
	account string
}

// NewRulesExtractor validates rules and compiles them into an extractor.
func NewRulesExtractor(rules *config.Rules) (*RulesExtractor, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &RulesExtractor{rules: *rules}
	for _, cr := range rules.CounterAccounts.Rules {
		e.counter = append(e.counter, counterRule{
			re:      regexp.MustCompile(cr.Pattern),
			account: cr.Account,
		})
	}
	return e, nil
}

// SkipLines returns the number of header rows.
func (e *RulesExtractor) SkipLines() int { return e.rules.SkipLines }

// Delimiter returns the CSV field separator.
func (e *RulesExtractor) Delimiter() rune { return e.rules.Delimiter() }

// ParseDate parses the date column with the configured layout.
func (e *RulesExtractor) ParseDate(row []string) (time.Time, error) {
	v, err := column(row, e.rules.Date.Column)
	if err != nil {
		return time.Time{}, fmt.Errorf("date: %w", err)
	}
	date, err := time.Parse(e.rules.Date.Format, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", v, err)
	}
	return date, nil
}

// ParsePayee joins the payee columns, skipping empty ones.
func (e *RulesExtractor) ParsePayee(row []string) (string, error) {
	parts := make([]string, 0, len(e.rules.Payee.Columns))
	for _, c := range e.rules.Payee.Columns {
		v, err := column(row, c)
		if err != nil {
			return "", fmt.Errorf("payee: %w", err)
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, e.rules.Payee.Separator), nil
}

// ParsePostings returns the primary posting and its balancing counter
// posting.
func (e *RulesExtractor) ParsePostings(row []string) ([]model.Posting, error) {
	quantity, err := e.parseQuantity(row)
	if err != nil {
		return nil, err
	}
	amount := model.NewAmount(quantity, e.rules.Commodity)

	account, err := e.primaryAccount(row)
	if err != nil {
		return nil, err
	}

	payee, err := e.ParsePayee(row)
	if err != nil {
		return nil, err
	}

	return []model.Posting{
		{Account: account, Amount: amount},
		{Account: e.counterAccount(payee, amount), Amount: amount.Reverse()},
	}, nil
}

// TransactionsMatch applies the configured match policy.
func (e *RulesExtractor) TransactionsMatch(a, b model.Transaction) bool {
	if e.rules.Match.Policy == config.MatchNone {
		return false
	}
	if !DefaultMatch(a, b) {
		return false
	}
	if e.rules.Match.MaxDays > 0 {
		gap := a.Date.Sub(b.Date).Abs()
		if gap > time.Duration(e.rules.Match.MaxDays)*24*time.Hour {
			return false
		}
	}
	return true
}

// FormatAmount fixes the number of decimals when configured.
func (e *RulesExtractor) FormatAmount(a model.Amount) string {
	if e.rules.Amount.Decimals < 0 {
		return a.String()
	}
	s := a.Quantity.StringFixed(int32(e.rules.Amount.Decimals))
	if a.Commodity == "" {
		return s
	}
	return s + " " + a.Commodity
}

// WithAccount returns a copy booking every row to account.
func (e *RulesExtractor) WithAccount(account string) Extractor {
	c := *e
	c.rules.Account = config.AccountRule{Name: account, Column: -1}
	return &c
}

func (e *RulesExtractor) parseQuantity(row []string) (decimal.Decimal, error) {
	ar := e.rules.Amount

	var quantity decimal.Decimal
	if ar.Column >= 0 {
		v, err := column(row, ar.Column)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("amount: %w", err)
		}
		quantity, err = e.parseDecimal(v)
		if err != nil {
			return decimal.Decimal{}, err
		}
	} else {
		debit, err := e.optionalDecimal(row, ar.DebitColumn)
		if err != nil {
			return decimal.Decimal{}, err
		}
		credit, err := e.optionalDecimal(row, ar.CreditColumn)
		if err != nil {
			return decimal.Decimal{}, err
		}
		quantity = credit.Sub(debit.Abs())
	}

	if ar.Invert {
		quantity = quantity.Neg()
	}
	return quantity, nil
}

// optionalDecimal reads a debit/credit cell; blank cells count as zero.
func (e *RulesExtractor) optionalDecimal(row []string, col int) (decimal.Decimal, error) {
	if col < 0 {
		return decimal.Zero, nil
	}
	v, err := column(row, col)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount: %w", err)
	}
	if e.normalize(v) == "" {
		return decimal.Zero, nil
	}
	return e.parseDecimal(v)
}

func (e *RulesExtractor) parseDecimal(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(e.normalize(v))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", v, err)
	}
	return d, nil
}

func (e *RulesExtractor) normalize(v string) string {
	ar := e.rules.Amount
	v = strings.Map(func(r rune) rune {
		if strings.ContainsRune(ar.Strip, r) {
			return -1
		}
		return r
	}, v)
	if ar.ThousandsSeparator != "" {
		v = strings.ReplaceAll(v, ar.ThousandsSeparator, "")
	}
	if ar.DecimalSeparator != "" && ar.DecimalSeparator != "." {
		v = strings.ReplaceAll(v, ar.DecimalSeparator, ".")
	}
	return strings.TrimSpace(v)
}

func (e *RulesExtractor) primaryAccount(row []string) (string, error) {
	ar := e.rules.Account
	if ar.Column < 0 {
		return ar.Name, nil
	}
	v, err := column(row, ar.Column)
	if err != nil {
		return "", fmt.Errorf("account: %w", err)
	}
	if name, ok := ar.Names[v]; ok {
		return name, nil
	}
	if ar.Name != "" {
		return ar.Name, nil
	}
	return "", fmt.Errorf("unknown account %q", v)
}

func (e *RulesExtractor) counterAccount(payee string, amount model.Amount) string {
	for _, cr := range e.counter {
		if cr.re.MatchString(payee) {
			return cr.account
		}
	}
	if amount.IsPositive() {
		return e.rules.CounterAccounts.Income
	}
	return e.rules.CounterAccounts.Expense
}

// column returns the trimmed field at index i.
func column(row []string, i int) (string, error) {
	if i < 0 || i >= len(row) {
		return "", fmt.Errorf("column %d out of range (row has %d fields)", i, len(row))
	}
	return strings.TrimSpace(row[i]), nil
}
