package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger-importer/internal/accounts"
)

func newAccountsCommand(a *app) *cobra.Command {
	var journalPath string
	var declaredOnly bool

	cmd := &cobra.Command{
		Use:   "accounts [prefix]",
		Short: "List the accounts known from a journal",
		Long: "List the accounts declared in the journal, and those used by its postings,\n" +
			"that start with prefix. These are the tab completions offered by import.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if journalPath == "" {
				journalPath = a.env.Journal
			}
			if journalPath == "" {
				return errors.New("--journal is required")
			}

			svc, err := accounts.Load(journalPath, accounts.ParseOptions{LearnPostings: !declaredOnly})
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			matches := svc.Completer().Matches(prefix)
			a.logger.Debug("listing accounts", "journal", journalPath, "prefix", prefix, "matches", len(matches))

			for _, name := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&journalPath, "journal", "j", "", "ledger journal (default $LEDGER_IMPORTER_JOURNAL)")
	cmd.Flags().BoolVar(&declaredOnly, "declared-only", false, "ignore accounts that only appear in postings")

	return cmd
}
