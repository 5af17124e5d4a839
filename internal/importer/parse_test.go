package importer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger-importer/internal/model"
)

// testExtractor reads "MM-DD-YYYY,payee,amount" rows.
type testExtractor struct {
	skip    int
	account string
}

func (e testExtractor) SkipLines() int  { return e.skip }
func (e testExtractor) Delimiter() rune { return ',' }

func (e testExtractor) ParseDate(row []string) (time.Time, error) {
	return time.Parse("01-02-2006", row[0])
}

func (e testExtractor) ParsePayee(row []string) (string, error) {
	return row[1], nil
}

func (e testExtractor) ParsePostings(row []string) ([]model.Posting, error) {
	q, err := decimal.NewFromString(row[2])
	if err != nil {
		return nil, err
	}
	account := e.account
	if account == "" {
		account = "Assets:Checking"
	}
	amount := model.NewAmount(q, "€")
	return []model.Posting{
		{Account: account, Amount: amount},
		{Account: "Expenses", Amount: amount.Reverse()},
	}, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	txns, err := Parse([][]string{{"05-23-2021", "description", "-100.42"}}, testExtractor{})
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, 1, txn.ID)
	assert.Equal(t, date(2021, 5, 23), txn.Date)
	assert.Equal(t, "description", txn.Payee)
	require.Len(t, txn.Postings, 2)
	assert.Equal(t, "Assets:Checking", txn.Primary().Account)
	assert.Equal(t, "-100.42 €", txn.Primary().Amount.String())
	assert.Equal(t, "Expenses", txn.Counter().Account)
	assert.Equal(t, "100.42 €", txn.Counter().Amount.String())
}

func TestParse_SkipLines(t *testing.T) {
	txns, err := Parse([][]string{{"date", "description", "amount"}}, testExtractor{skip: 1})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestParse_SkipMoreThanRows(t *testing.T) {
	txns, err := Parse(nil, testExtractor{skip: 3})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestParse_SkipsExactlyN(t *testing.T) {
	rows := [][]string{
		{"header", "x", "y"},
		{"garbage", "x", "y"},
		{"01-02-2021", "kept", "1"},
	}
	txns, err := Parse(rows, testExtractor{skip: 2})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "kept", txns[0].Payee)
}

func TestParse_StableSortByDate(t *testing.T) {
	rows := [][]string{
		{"01-03-2021", "third day", "-1"},
		{"01-01-2021", "first A", "-2"},
		{"01-02-2021", "second", "-3"},
		{"01-01-2021", "first B", "-4"},
		{"01-01-2021", "first C", "-5"},
	}
	txns, err := Parse(rows, testExtractor{})
	require.NoError(t, err)

	var payees []string
	var ids []int
	for _, txn := range txns {
		payees = append(payees, txn.Payee)
		ids = append(ids, txn.ID)
	}
	assert.Equal(t, []string{"first A", "first B", "first C", "second", "third day"}, payees)
	assert.Equal(t, []int{2, 4, 5, 3, 1}, ids, "IDs follow row order, not date order")
}

func TestParse_BadRowIsFatal(t *testing.T) {
	rows := [][]string{
		{"Date", "Payee", "Amount"},
		{"01-01-2021", "ok", "1"},
		{"NOTADATE", "bad", "1"},
	}
	txns, err := Parse(rows, testExtractor{skip: 1})
	require.Error(t, err)
	assert.Nil(t, txns)
	assert.Contains(t, err.Error(), "row 3")
}

type onePostingExtractor struct{ testExtractor }

func (onePostingExtractor) ParsePostings(row []string) ([]model.Posting, error) {
	return []model.Posting{{Account: "Assets:Checking"}}, nil
}

func TestParse_TooFewPostings(t *testing.T) {
	_, err := Parse([][]string{{"01-01-2021", "x", "1"}}, onePostingExtractor{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooFewPostings))
}

func TestParseSources(t *testing.T) {
	checking := [][]string{
		{"Date", "Payee", "Amount"},
		{"01-07-2021", "Transfer to savings", "-150"},
		{"01-09-2021", "Salary", "2500"},
	}
	savings := [][]string{
		{"Date", "Payee", "Amount"},
		{"01-07-2021", "Transfer from checking", "150"},
	}

	txns, err := ParseSources([]Source{
		{Name: "checking.csv", Rows: checking, Extractor: testExtractor{skip: 1}},
		{Name: "savings.csv", Rows: savings, Extractor: testExtractor{skip: 1, account: "Assets:Savings"}},
	})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "Transfer to savings", txns[0].Payee)
	assert.Equal(t, 1, txns[0].ID)
	assert.Equal(t, "Transfer from checking", txns[1].Payee)
	assert.Equal(t, 3, txns[1].ID)
	assert.Equal(t, "Assets:Savings", txns[1].Primary().Account)
	assert.Equal(t, "Salary", txns[2].Payee)
}

func TestParseSources_ErrorNamesSource(t *testing.T) {
	_, err := ParseSources([]Source{
		{Name: "savings.csv", Rows: [][]string{{"h"}, {"01-01-2021", "x", "NaN?"}}, Extractor: testExtractor{skip: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "savings.csv: row 2")
}

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("\ufeffDate;Payee;Amount\n01-01-2021;\"Shop; Inc\";-1,50\n01-02-2021;Short\n"), ';')
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0], "BOM is stripped")
	assert.Equal(t, []string{"01-01-2021", "Shop; Inc", "-1,50"}, rows[1])
	assert.Len(t, rows[2], 2, "ragged rows are allowed")
}

func TestReadRows_Empty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""), ',')
	require.NoError(t, err)
	assert.Empty(t, rows)
}
