package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses, net balance and alerts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			d := s.engine.Dashboard()
			s.println(s.format.Summary(d.TotalIncome, d.TotalExpense, d.Net))

			for _, b := range d.Budgets {
				if b.Exceeded {
					s.println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s: spent %s of %s",
						b.Category, s.format.Money(b.Spent), s.format.Money(b.Limit))))
				}
			}
			if top := d.Ranking.Top(); top != nil {
				s.println(cli.FormatInfo(fmt.Sprintf("Pay %s first: %s/month",
					top.Debt.Name, s.format.Money(top.Installment))))
			}
			return nil
		},
	}
}
