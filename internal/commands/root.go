package commands

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger-importer/internal/buildinfo"
	"github.com/cleared-dev/ledger-importer/internal/config"
)

// app carries what the root command sets up for its subcommands.
type app struct {
	logger *log.Logger
	env    config.Env
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool
	var envFile string
	a := &app{logger: log.New(io.Discard)}

	rootCmd := &cobra.Command{
		Use:     "ledger-importer",
		Short:   "Import bank statements into a ledger journal",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), verbose)

			env, err := config.LoadEnv(envFile, cmd.Flags().Changed("env-file"))
			if err != nil {
				return err
			}
			a.env = env
			a.logger.Debug("environment loaded", "file", envFile, "rules", env.Rules, "journal", env.Journal)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file with default settings")

	rootCmd.AddCommand(
		newImportCommand(a),
		newInitCommand(),
		newAccountsCommand(a),
		newPresetsCommand(),
	)

	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "ledger-importer",
	})
}
