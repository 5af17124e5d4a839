package accounts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// accountLine matches "account <Name>" with an optional "; comment".
var accountLine = regexp.MustCompile(`^account\s+([^;]*[^;\s])\s*(;.*)?$`)

// ParseOptions controls what ParseAccounts collects.
type ParseOptions struct {
	// LearnPostings also collects accounts used by postings of dated
	// transactions, after the declared ones.
	LearnPostings bool
}

// ParseAccounts reads account names from a ledger journal in first-seen
// order without duplicates.
func ParseAccounts(r io.Reader, opts ParseOptions) ([]string, error) {
	var declared, used []string
	seen := make(map[string]bool)
	inTxn := false

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()

		if m := accountLine.FindStringSubmatch(line); m != nil {
			inTxn = false
			if !seen[m[1]] {
				seen[m[1]] = true
				declared = append(declared, m[1])
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			inTxn = false
		case line[0] >= '0' && line[0] <= '9':
			inTxn = true
		case line[0] != ' ' && line[0] != '\t':
			inTxn = false
		case opts.LearnPostings && inTxn && trimmed[0] != ';':
			if name := postingAccount(trimmed); name != "" {
				used = append(used, name)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	for _, name := range used {
		if !seen[name] {
			seen[name] = true
			declared = append(declared, name)
		}
	}
	return declared, nil
}

// postingAccount extracts the account of a posting line; the account ends at
// a tab or at two consecutive spaces.
func postingAccount(line string) string {
	line = strings.TrimLeft(line, "*! ")
	end := len(line)
	if i := strings.Index(line, "  "); i >= 0 {
		end = i
	}
	if i := strings.IndexByte(line, '\t'); i >= 0 && i < end {
		end = i
	}
	return strings.Trim(strings.TrimSpace(line[:end]), "()[]")
}

// Service provides in-memory lookup over known account names.
type Service struct {
	accounts []string
	byName   map[string]bool
}

// NewService creates a Service from account names in display order.
func NewService(accounts []string) *Service {
	byName := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		byName[a] = true
	}
	return &Service{accounts: accounts, byName: byName}
}

// Load reads account names from the ledger journal at path.
func Load(path string, opts ParseOptions) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	accts, err := ParseAccounts(f, opts)
	if err != nil {
		return nil, fmt.Errorf("reading accounts from %s: %w", path, err)
	}
	return NewService(accts), nil
}

// All returns all account names.
func (s *Service) All() []string {
	return s.accounts
}

// Exists reports whether name is a known account.
func (s *Service) Exists(name string) bool {
	return s.byName[name]
}

// Completer returns a tab completer over the accounts.
func (s *Service) Completer() *Completer {
	return NewCompleter(s.accounts)
}
