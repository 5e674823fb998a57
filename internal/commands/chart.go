package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/statement"
)

func newChartCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Print the chart of accounts as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := opts.load()
			if err != nil {
				return err
			}
			defer l.close()
			return printChart(cmd.OutOrStdout(), l.index)
		},
	}
}

func printChart(w io.Writer, index *accounts.Index) error {
	fmt.Fprintf(w, "%-40s %-12s %16s\n", "ACCOUNT", "EQUATION", "BALANCE ("+index.Currency().Ticker+")")

	n := 0
	var walk func(acct accounts.Account, depth int) error
	walk = func(acct accounts.Account, depth int) error {
		def, err := acct.Definition(index)
		if err != nil {
			return err
		}
		n++
		name := strings.Repeat("  ", depth) + def.Name()
		fmt.Fprintf(w, "%-40s %-12s %16s\n", name, def.EquationVariable(), statement.FormatAmount(acct.Balance()))

		children, err := index.AccountChildren(acct)
		if err != nil {
			return err
		}
		for _, c := range children {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, acct := range index.Accounts() {
		def, err := acct.Definition(index)
		if err != nil {
			return err
		}
		if _, ok := def.ParentID(); ok {
			continue
		}
		if err := walk(acct, 0); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s accounts\n", humanize.Comma(int64(n)))
	return err
}
