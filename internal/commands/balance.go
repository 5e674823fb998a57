package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/statement"
)

func newBalanceCommand(opts *options) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the accounting equation and check that it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.load()
			if err != nil {
				return err
			}
			defer l.close()

			if !cmd.Flags().Changed("title") {
				title = l.cfg.Ledger.Name
			}
			eb := l.index.EquationBalance()
			if err := eb.Render(cmd.OutOrStdout(), title); err != nil {
				return fmt.Errorf("rendering balance: %w", err)
			}
			if !eb.Balanced() {
				return fmt.Errorf("equation does not hold: assets %s != liabilities + equity %s",
					statement.FormatAmount(eb.DebitSide()), statement.FormatAmount(eb.CreditSide()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "table title (defaults to the ledger name)")

	return cmd
}
