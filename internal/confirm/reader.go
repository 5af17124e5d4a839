package confirm

import (
	"bufio"
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// Scanner reads answers from a plain stream such as a pipe.
type Scanner struct {
	r *bufio.Reader
}

// NewScanner returns a Scanner over r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// ReadLine returns the next line including its terminator. A last line
// without a newline is returned before io.EOF.
func (s *Scanner) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		return line, nil
	}
	return line, err
}

// Terminal reads answers with line editing and tab completion.
type Terminal struct {
	rl *readline.Instance
}

// NewTerminal starts line editing on the process terminal. The prompt and
// the editing echo go to status.
func NewTerminal(completer readline.AutoCompleter, status io.Writer) (*Terminal, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		AutoComplete:           completer,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              AnswerQuit,
		Stdout:                 status,
		Stderr:                 status,
	})
	if err != nil {
		return nil, err
	}
	return &Terminal{rl: rl}, nil
}

// ReadLine reads one edited line. Ctrl-C and Ctrl-D both end input.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	return t.rl.Close()
}

// IsTerminal reports whether stdin and an output stream are a terminal.
func IsTerminal() bool {
	return readline.DefaultIsTerminal()
}
