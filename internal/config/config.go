package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRules is wrapped by every Validate failure.
var ErrInvalidRules = errors.New("invalid rules")

// Match policies.
const (
	MatchOppositeAmount = "opposite-amount"
	MatchNone           = "none"
)

// Rules describes how rows of one bank's CSV export become transactions.
type Rules struct {
	SkipLines       int             `yaml:"skip_lines"`
	CSVDelimiter    string          `yaml:"csv_delimiter"`
	Date            DateRule        `yaml:"date"`
	Payee           PayeeRule       `yaml:"payee"`
	Amount          AmountRule      `yaml:"amount"`
	Commodity       string          `yaml:"commodity"`
	Account         AccountRule     `yaml:"account"`
	CounterAccounts CounterAccounts `yaml:"counter_accounts"`
	Match           MatchRule       `yaml:"match"`
}

// DateRule locates and parses the booking date.
type DateRule struct {
	Column int    `yaml:"column"`
	Format string `yaml:"format"` // Go reference layout, e.g. "01-02-2006"
}

// PayeeRule builds the payee from one or more columns.
type PayeeRule struct {
	Columns   []int  `yaml:"columns"`
	Separator string `yaml:"separator,omitempty"`
}

// AmountRule locates and normalizes the amount. Either Column holds a signed
// amount, or DebitColumn/CreditColumn hold unsigned outflow/inflow.
type AmountRule struct {
	Column             int    `yaml:"column"`
	DebitColumn        int    `yaml:"debit_column"`
	CreditColumn       int    `yaml:"credit_column"`
	DecimalSeparator   string `yaml:"decimal_separator,omitempty"`
	ThousandsSeparator string `yaml:"thousands_separator,omitempty"`
	Strip              string `yaml:"strip,omitempty"` // characters removed before parsing
	Invert             bool   `yaml:"invert,omitempty"`
	Decimals           int    `yaml:"decimals"` // -1 = as parsed
}

// AccountRule names the statement's own (primary) account.
type AccountRule struct {
	Name   string            `yaml:"name"`
	Column int               `yaml:"column"` // -1 = always Name
	Names  map[string]string `yaml:"names,omitempty"`
}

// CounterAccounts picks the initial counter account.
type CounterAccounts struct {
	Income  string        `yaml:"income"`
	Expense string        `yaml:"expense"`
	Rules   []CounterRule `yaml:"rules,omitempty"`
}

// CounterRule books payees matching Pattern to Account.
type CounterRule struct {
	Pattern string `yaml:"pattern"`
	Account string `yaml:"account"`
}

// MatchRule controls which transactions are merged as two sides of a transfer.
type MatchRule struct {
	Policy  string `yaml:"policy"`
	MaxDays int    `yaml:"max_days"` // 0 = unbounded
}

// Load reads a rules file from disk. Keys absent from the file keep their
// Default values.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	rules, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// Parse decodes and validates YAML rules.
func Parse(data []byte) (*Rules, error) {
	rules := Default()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Default returns rules for a "date,?,payee,amount" export in euros with a
// header line.
func Default() *Rules {
	return &Rules{
		SkipLines:    1,
		CSVDelimiter: ",",
		Date: DateRule{
			Column: 0,
			Format: "01-02-2006",
		},
		Payee: PayeeRule{
			Columns:   []int{2},
			Separator: " ",
		},
		Amount: AmountRule{
			Column:           3,
			DebitColumn:      -1,
			CreditColumn:     -1,
			DecimalSeparator: ",",
			Strip:            "€ ",
			Decimals:         -1,
		},
		Commodity: "€",
		Account: AccountRule{
			Name:   "Assets:Checking",
			Column: -1,
		},
		CounterAccounts: CounterAccounts{
			Income:  "Income",
			Expense: "Expenses",
		},
		Match: MatchRule{
			Policy: MatchOppositeAmount,
		},
	}
}

// Delimiter returns the CSV field separator as a rune.
func (r *Rules) Delimiter() rune {
	d, _ := utf8.DecodeRuneInString(r.CSVDelimiter)
	return d
}

// Validate reports every setting that cannot work.
func (r *Rules) Validate() error {
	var msgs []string

	if r.SkipLines < 0 {
		msgs = append(msgs, fmt.Sprintf("skip_lines must be >= 0, got %d", r.SkipLines))
	}
	if utf8.RuneCountInString(r.CSVDelimiter) != 1 {
		msgs = append(msgs, fmt.Sprintf("csv_delimiter must be a single character, got %q", r.CSVDelimiter))
	}
	if r.Date.Column < 0 {
		msgs = append(msgs, "date.column must be >= 0")
	}
	if r.Date.Format == "" {
		msgs = append(msgs, "date.format is required")
	}
	if len(r.Payee.Columns) == 0 {
		msgs = append(msgs, "payee.columns is required")
	}
	for _, c := range r.Payee.Columns {
		if c < 0 {
			msgs = append(msgs, fmt.Sprintf("payee column %d must be >= 0", c))
		}
	}
	if r.Amount.Column < 0 && r.Amount.DebitColumn < 0 && r.Amount.CreditColumn < 0 {
		msgs = append(msgs, "amount needs column or debit_column/credit_column")
	}
	if r.Amount.Column >= 0 && (r.Amount.DebitColumn >= 0 || r.Amount.CreditColumn >= 0) {
		msgs = append(msgs, "amount.column and debit_column/credit_column are exclusive; set column to -1 for split columns")
	}
	if r.Account.Name == "" && r.Account.Column < 0 {
		msgs = append(msgs, "account.name is required")
	}
	if r.CounterAccounts.Income == "" || r.CounterAccounts.Expense == "" {
		msgs = append(msgs, "counter_accounts.income and counter_accounts.expense are required")
	}
	for i, cr := range r.CounterAccounts.Rules {
		if cr.Account == "" {
			msgs = append(msgs, fmt.Sprintf("counter_accounts.rules[%d]: account is required", i))
		}
		if _, err := regexp.Compile(cr.Pattern); err != nil {
			msgs = append(msgs, fmt.Sprintf("counter_accounts.rules[%d]: %v", i, err))
		}
	}
	switch r.Match.Policy {
	case MatchOppositeAmount, MatchNone:
	default:
		msgs = append(msgs, fmt.Sprintf("unknown match.policy %q", r.Match.Policy))
	}
	if r.Match.MaxDays < 0 {
		msgs = append(msgs, "match.max_days must be >= 0")
	}

	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRules, strings.Join(msgs, "; "))
	}
	return nil
}
