package accounts

import "strings"

// Completer offers account names that start with what was typed.
type Completer struct {
	accounts []string
}

// NewCompleter returns a completer over accounts, kept in the given order.
func NewCompleter(accounts []string) *Completer {
	return &Completer{accounts: accounts}
}

// Matches returns the accounts starting with prefix, in list order. An empty
// prefix matches everything.
func (c *Completer) Matches(prefix string) []string {
	var out []string
	for _, a := range c.accounts {
		if a != "" && strings.HasPrefix(a, prefix) {
			out = append(out, a)
		}
	}
	return out
}

// Complete returns the state-th candidate for prefix; ok is false once the
// candidates are exhausted.
func (c *Completer) Complete(prefix string, state int) (candidate string, ok bool) {
	matches := c.Matches(prefix)
	if state < 0 || state >= len(matches) {
		return "", false
	}
	return matches[state], true
}

// Do implements readline.AutoCompleter. The whole line before the cursor is
// the prefix since account names may contain spaces.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	prefix := string(line[:pos])
	for _, m := range c.Matches(prefix) {
		newLine = append(newLine, []rune(m[len(prefix):]))
	}
	return newLine, len(line[:pos])
}
