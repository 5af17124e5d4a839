// Package confirm asks the user to accept, skip or correct each transaction
// before it is written.
package confirm

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/cleared-dev/ledger-importer/internal/model"
)

// Answers with a special meaning.
const (
	AnswerQuit = "q"
	AnswerSkip = "s"
)

const dateFormat = "2006/01/02"

// LineReader returns one line of user input per call. io.EOF means the user
// is gone and is treated like a quit.
type LineReader interface {
	ReadLine() (string, error)
}

// Config wires a Confirmer.
type Config struct {
	Input        LineReader
	Status       io.Writer // prompts go here, never to the ledger output
	FormatAmount func(model.Amount) string
	NoColor      bool
	Logger       *log.Logger
}

// Result is what survived confirmation.
type Result struct {
	Accepted   []model.Transaction
	Skipped    int
	Overridden int
	Dropped    int // left unseen after a quit
	Quit       bool
}

// Confirmer runs the interactive loop.
type Confirmer struct {
	in     LineReader
	status io.Writer
	amount func(model.Amount) string
	logger *log.Logger

	header  *color.Color
	account *color.Color
	inflow  *color.Color
	outflow *color.Color
	ask     *color.Color
}

// New returns a Confirmer.
func New(cfg Config) *Confirmer {
	c := &Confirmer{
		in:      cfg.Input,
		status:  cfg.Status,
		amount:  cfg.FormatAmount,
		logger:  cfg.Logger,
		header:  color.New(color.Bold),
		account: color.New(color.FgCyan),
		inflow:  color.New(color.FgGreen),
		outflow: color.New(color.FgRed),
		ask:     color.New(color.FgYellow),
	}
	if c.amount == nil {
		c.amount = model.Amount.String
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if cfg.NoColor {
		for _, col := range []*color.Color{c.header, c.account, c.inflow, c.outflow, c.ask} {
			col.DisableColor()
		}
	}
	return c
}

// Confirm prompts for every transaction in order. Answers are trimmed of
// surrounding whitespace before they are interpreted, so a blank answer
// accepts and an override never carries leading or trailing spaces into the
// account name. A read error other than io.EOF stops the loop and is
// returned along with what was accepted so far.
func (c *Confirmer) Confirm(txns []model.Transaction) (Result, error) {
	var res Result

	for i, t := range txns {
		c.render(t)

		line, err := c.in.ReadLine()
		if errors.Is(err, io.EOF) {
			c.logger.Debug("input closed, stopping", "transaction", t.ID)
			res.Quit = true
			res.Dropped = len(txns) - i
			break
		}
		if err != nil {
			res.Dropped = len(txns) - i
			return res, fmt.Errorf("reading answer: %w", err)
		}

		answer := strings.TrimSpace(line)
		switch answer {
		case "":
			res.Accepted = append(res.Accepted, t)
		case AnswerQuit:
			c.logger.Debug("quit", "transaction", t.ID)
			res.Quit = true
			res.Dropped = len(txns) - i
		case AnswerSkip:
			c.logger.Debug("skipped", "transaction", t.ID)
			res.Skipped++
		default:
			c.logger.Debug("counter account changed", "transaction", t.ID, "from", t.Counter().Account, "to", answer)
			res.Accepted = append(res.Accepted, t.WithCounterAccount(answer))
			res.Overridden++
		}
		if res.Quit {
			break
		}
	}

	c.logger.Info("confirmation complete",
		"accepted", len(res.Accepted),
		"skipped", res.Skipped,
		"overridden", res.Overridden,
		"dropped", res.Dropped,
	)
	return res, nil
}

// render writes the summary table and the question for t.
func (c *Confirmer) render(t model.Transaction) {
	primary := t.Primary()
	cells := []string{primary.Account, t.Date.Format(dateFormat), c.amount(primary.Amount), t.Payee}
	titles := []string{"Account", "Date", "Amount", "Payee"}

	amountColor := c.outflow
	question := "To which account did this money go?"
	if primary.Amount.IsPositive() {
		amountColor = c.inflow
		question = "Which account provided this income?"
	}

	fmt.Fprintln(c.status)
	fmt.Fprint(c.status, "|")
	for i, title := range titles {
		width := max(utf8.RuneCountInString(cells[i]), utf8.RuneCountInString(title))
		c.header.Fprint(c.status, " "+center(title, width)+" ")
		fmt.Fprint(c.status, "|")
	}
	fmt.Fprintln(c.status)

	fmt.Fprint(c.status, "|")
	for i, cell := range cells {
		width := max(utf8.RuneCountInString(cell), utf8.RuneCountInString(titles[i]))
		text := " " + center(cell, width) + " "
		switch i {
		case 0:
			c.account.Fprint(c.status, text)
		case 2:
			amountColor.Fprint(c.status, text)
		default:
			fmt.Fprint(c.status, text)
		}
		fmt.Fprint(c.status, "|")
	}
	fmt.Fprintln(c.status)
	fmt.Fprintln(c.status)

	c.ask.Fprintf(c.status, "%s ([%s]/[q]uit/[s]kip) ", question, t.Counter().Account)
	fmt.Fprintln(c.status)
}

// center pads s with spaces to width runes; an odd margin puts the extra
// space on the left when width is odd, on the right otherwise.
func center(s string, width int) string {
	marg := width - utf8.RuneCountInString(s)
	if marg <= 0 {
		return s
	}
	left := marg/2 + (marg & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", marg-left)
}
