package accounts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccounts(t *testing.T) {
	accts, err := ParseAccounts(strings.NewReader(`
account Expenses:Groceries  ; comment
account Foo

commodity €
`), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Expenses:Groceries", "Foo"}, accts)
}

func TestParseAccounts_SpacesAndDuplicates(t *testing.T) {
	accts, err := ParseAccounts(strings.NewReader(
		"account Assets:My Bank\naccount\tLiabilities:Card;no space\naccount Assets:My Bank\n"), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Assets:My Bank", "Liabilities:Card"}, accts)
}

func TestParseAccounts_LearnPostings(t *testing.T) {
	journal := `account Assets:Checking
    note sub-directives are not postings

2021/01/01 * Opening
    Assets:Checking    1000 €
    Equity:Opening    -1000 €
    ; a comment

2021/01/02    Shop
    Expenses:Food	12 €
    (Budget:Food)    -12 €
    Assets:Checking
`
	accts, err := ParseAccounts(strings.NewReader(journal), ParseOptions{LearnPostings: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Assets:Checking", "Equity:Opening", "Expenses:Food", "Budget:Food"}, accts)

	declared, err := ParseAccounts(strings.NewReader(journal), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Assets:Checking"}, declared)
}

func TestLoadFromTestdata(t *testing.T) {
	svc, err := Load("../../testdata/journal.ledger", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Assets:Checking", "Assets:Savings", "Expenses:Groceries", "Income:Salary"}, svc.All())
	assert.True(t, svc.Exists("Assets:Savings"))
	assert.False(t, svc.Exists("Equity:Opening"))

	svc, err = Load("../../testdata/journal.ledger", ParseOptions{LearnPostings: true})
	require.NoError(t, err)
	assert.True(t, svc.Exists("Equity:Opening"))
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ledger"), ParseOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
