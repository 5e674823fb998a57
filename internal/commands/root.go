package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/buildinfo"
	"github.com/cleared-dev/ledger/internal/config"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	journals   []string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Double-entry chart of accounts",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.FileName, "path to ledger.yaml")
	flags.StringSliceVar(&opts.journals, "journal", nil, "extra journal CSV to apply (repeatable)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newInitCommand(),
		newBalanceCommand(opts),
		newChartCommand(opts),
		newExportCommand(opts),
	)

	return rootCmd
}
