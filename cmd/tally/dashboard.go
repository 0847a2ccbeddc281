package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"tui"},
		Short:   "Browse transactions, budgets and debts in a terminal dashboard",
		Long: `Open a read-only dashboard of the ledger.

Press tab to switch views, / to filter transactions, r to reload from storage
and q to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			return tui.Run(cmd.Context(),
				tui.WithLoader(s.reload),
				tui.WithCurrency(s.cfg.Display.Currency),
			)
		},
	}
}
