package model

import (
	"slices"
	"time"
)

// Posting is one leg of a double-entry transaction.
type Posting struct {
	Account string // colon-separated hierarchy, e.g. "Assets:Checking"
	Amount  Amount
}

// Transaction is a dated double-entry record parsed from one statement row.
//
// Postings[0] is the primary leg (the statement's own account) and
// Postings[1] the counter leg that merging and confirmation may rewrite.
// Amounts are expected to net to zero but that is not checked.
type Transaction struct {
	ID       int // 1-based position among parsed rows
	Date     time.Time
	Payee    string
	Postings []Posting
}

// Primary returns the first posting.
func (t Transaction) Primary() Posting {
	return t.Postings[0]
}

// Counter returns the second posting.
func (t Transaction) Counter() Posting {
	return t.Postings[1]
}

// Clone returns a copy that shares no postings storage with t.
func (t Transaction) Clone() Transaction {
	t.Postings = slices.Clone(t.Postings)
	return t
}

// WithCounterAccount returns a copy of t whose counter posting is booked to
// account. The amount and every other posting are unchanged.
func (t Transaction) WithCounterAccount(account string) Transaction {
	c := t.Clone()
	c.Postings[1].Account = account
	return c
}
