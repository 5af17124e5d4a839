package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/ledger-importer/internal/config"
	"github.com/cleared-dev/ledger-importer/internal/model"
)

func TestDefaultMatch(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b model.Transaction
		want bool
	}{
		{
			name: "opposite amounts, different accounts",
			a:    transfer("Assets:Checking", -150, now),
			b:    transfer("Assets:Savings", 150, now),
			want: true,
		},
		{
			name: "opposite amounts, same account",
			a:    transfer("Assets:Checking", -150, now),
			b:    transfer("Assets:Checking", 150, now),
			want: false,
		},
		{
			name: "different amounts, different accounts",
			a:    transfer("Assets:Checking", -150, now),
			b:    transfer("Assets:Savings", 85, now),
			want: false,
		},
		{
			name: "same sign",
			a:    transfer("Assets:Checking", 150, now),
			b:    transfer("Assets:Savings", 150, now),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultMatch(tt.a, tt.b))
		})
	}
}

func TestDefaultMatch_Commodity(t *testing.T) {
	now := time.Now()
	a := transfer("Assets:Checking", -150, now)
	b := transfer("Assets:Savings", 150, now)
	b.Postings[0].Amount.Commodity = "$"
	assert.False(t, DefaultMatch(a, b))
}

func TestMatchFor(t *testing.T) {
	now := time.Now()
	a := transfer("Assets:Checking", -150, now)
	b := transfer("Assets:Savings", 150, now)

	assert.True(t, MatchFor(testExtractor{})(a, b), "falls back to DefaultMatch")

	none := mustRules(t, func(r *config.Rules) { r.Match.Policy = config.MatchNone })
	assert.False(t, MatchFor(none)(a, b))
}
