package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger-importer/internal/accounts"
	"github.com/cleared-dev/ledger-importer/internal/config"
	"github.com/cleared-dev/ledger-importer/internal/confirm"
	"github.com/cleared-dev/ledger-importer/internal/gitops"
	"github.com/cleared-dev/ledger-importer/internal/importer"
	"github.com/cleared-dev/ledger-importer/internal/journal"
	"github.com/cleared-dev/ledger-importer/internal/model"
	"github.com/cleared-dev/ledger-importer/internal/reconcile"
)

type importOptions struct {
	statements    []string
	rulesPath     string
	format        string
	journalPath   string
	appendJournal bool
	commit        bool
	quiet         bool
}

func newImportCommand(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import --statement file.csv[=Account]... (--rules file.yaml | --format preset)",
		Short: "Convert bank statements into ledger transactions",
		Long: "Parse one or more CSV statements, merge transfers between them, confirm each\n" +
			"transaction interactively and write ledger entries to stdout or the journal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.statements, "statement", "s", nil, "CSV statement, optionally booked to =Account (repeatable)")
	f.StringVarP(&opts.rulesPath, "rules", "r", "", "rules file describing the CSV layout (default $LEDGER_IMPORTER_RULES)")
	f.StringVarP(&opts.format, "format", "f", "", "built-in statement format instead of a rules file (see presets)")
	f.StringVarP(&opts.journalPath, "journal", "j", "", "ledger journal for account completion (default $LEDGER_IMPORTER_JOURNAL)")
	f.BoolVar(&opts.appendJournal, "append", false, "append entries to the journal instead of printing them")
	f.BoolVar(&opts.commit, "commit", false, "git commit the journal after appending")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "accept every transaction without asking")
	_ = cmd.MarkFlagRequired("statement")
	cmd.MarkFlagsMutuallyExclusive("rules", "format")

	return cmd
}

func runImport(cmd *cobra.Command, a *app, opts importOptions) error {
	if opts.journalPath == "" {
		opts.journalPath = a.env.Journal
	}
	if opts.appendJournal && opts.journalPath == "" {
		return errors.New("--append needs --journal")
	}
	if opts.commit && !opts.appendJournal {
		return errors.New("--commit needs --append")
	}
	// Checked before anything is written so a failed commit never leaves
	// the journal half-imported.
	if opts.commit && !gitops.IsRepo(opts.journalPath) {
		return fmt.Errorf("--commit: %s is %w", opts.journalPath, gitops.ErrNotRepo)
	}

	ext, err := resolveExtractor(a, opts)
	if err != nil {
		return err
	}

	sources := make([]importer.Source, 0, len(opts.statements))
	paths := make([]string, 0, len(opts.statements))
	for _, arg := range opts.statements {
		src, err := readStatement(arg, ext)
		if err != nil {
			return err
		}
		sources = append(sources, src)
		paths = append(paths, src.Name)
	}

	txns, err := importer.ParseSources(sources)
	if err != nil {
		return fmt.Errorf("parsing statements: %w", err)
	}
	a.logger.Debug("statements parsed", "statements", len(sources), "transactions", len(txns))

	merged := reconcile.New(importer.MatchFor(ext), a.logger).Merge(txns)
	for _, p := range merged.Pairs {
		a.logger.Debug("transfer merged", "kept", p.Survivor, "dropped", p.Consumed)
	}

	known, err := loadAccounts(opts.journalPath)
	if err != nil {
		return err
	}

	amount := importer.FormatFor(ext)
	accepted := merged.Transactions
	if !opts.quiet {
		res, err := confirmTransactions(cmd, a, known, amount, merged.Transactions)
		if err != nil {
			return err
		}
		accepted = res.Accepted
	}
	warnUnknownAccounts(a, known, accepted)

	if !opts.appendJournal {
		return journal.Write(cmd.OutOrStdout(), accepted, amount)
	}

	if err := journal.Append(opts.journalPath, accepted, amount); err != nil {
		return err
	}
	a.logger.Info("journal updated", "journal", opts.journalPath, "transactions", len(accepted))

	if !opts.commit {
		return nil
	}
	if len(accepted) == 0 {
		a.logger.Warn("nothing imported, skipping commit")
		return nil
	}
	hash, err := gitops.CommitFile(opts.journalPath, gitops.CommitMessage(len(accepted), paths), a.env.AuthorName, a.env.AuthorEmail)
	if err != nil {
		return fmt.Errorf("committing journal: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Committed %d transactions to %s (%s)\n", len(accepted), opts.journalPath, hash)
	return nil
}

// resolveExtractor picks the preset named by --format or compiles the rules
// file.
func resolveExtractor(a *app, opts importOptions) (importer.Extractor, error) {
	if opts.format != "" {
		reg := importer.DefaultRegistry()
		p := reg.Get(opts.format)
		if p == nil {
			return nil, fmt.Errorf("unknown format %q (available: %s)", opts.format, strings.Join(reg.Formats(), ", "))
		}
		a.logger.Debug("using preset", "format", p.Format())
		return p, nil
	}

	path := opts.rulesPath
	if path == "" {
		path = a.env.Rules
	}
	if path == "" {
		return nil, errors.New("either --rules or --format is required")
	}

	rules, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	ext, err := importer.NewRulesExtractor(rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("using rules", "file", path)
	return ext, nil
}

// readStatement reads "path" or "path=Account".
func readStatement(arg string, ext importer.Extractor) (importer.Source, error) {
	path, account := splitStatement(arg)
	if account != "" {
		o, ok := ext.(importer.AccountOverrider)
		if !ok {
			return importer.Source{}, fmt.Errorf("%s: this format cannot book statements to another account", path)
		}
		ext = o.WithAccount(account)
	}

	f, err := os.Open(path)
	if err != nil {
		return importer.Source{}, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	rows, err := importer.ReadRows(f, ext.Delimiter())
	if err != nil {
		return importer.Source{}, fmt.Errorf("%s: %w", path, err)
	}
	return importer.Source{Name: path, Rows: rows, Extractor: ext}, nil
}

// splitStatement splits at the last "=" when an account name follows it.
func splitStatement(arg string) (path, account string) {
	i := strings.LastIndex(arg, "=")
	if i <= 0 || i == len(arg)-1 {
		return arg, ""
	}
	return arg[:i], strings.TrimSpace(arg[i+1:])
}

// loadAccounts returns the journal's accounts. A journal that does not
// exist yet has none.
func loadAccounts(path string) (*accounts.Service, error) {
	if path == "" {
		return accounts.NewService(nil), nil
	}
	svc, err := accounts.Load(path, accounts.ParseOptions{LearnPostings: true})
	if errors.Is(err, fs.ErrNotExist) {
		return accounts.NewService(nil), nil
	}
	return svc, err
}

func confirmTransactions(cmd *cobra.Command, a *app, known *accounts.Service, amount func(model.Amount) string, txns []model.Transaction) (confirm.Result, error) {
	var in confirm.LineReader
	interactive := cmd.InOrStdin() == os.Stdin && confirm.IsTerminal()
	if interactive {
		term, err := confirm.NewTerminal(known.Completer(), cmd.ErrOrStderr())
		if err != nil {
			return confirm.Result{}, fmt.Errorf("starting terminal: %w", err)
		}
		defer term.Close()
		in = term
	} else {
		in = confirm.NewScanner(cmd.InOrStdin())
	}

	c := confirm.New(confirm.Config{
		Input:        in,
		Status:       cmd.ErrOrStderr(),
		FormatAmount: amount,
		NoColor:      !interactive,
		Logger:       a.logger,
	})
	res, err := c.Confirm(txns)
	if err != nil {
		return res, err
	}
	if res.Quit && res.Dropped > 0 {
		a.logger.Warn("stopped early, remaining transactions were not imported", "dropped", res.Dropped)
	}
	return res, nil
}

func warnUnknownAccounts(a *app, known *accounts.Service, txns []model.Transaction) {
	if len(known.All()) == 0 {
		return
	}
	seen := make(map[string]bool)
	for _, t := range txns {
		for _, p := range t.Postings {
			if known.Exists(p.Account) || seen[p.Account] {
				continue
			}
			seen[p.Account] = true
			a.logger.Warn("account not found in journal", "account", p.Account, "payee", t.Payee)
		}
	}
}

