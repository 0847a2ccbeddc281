package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
)

func debtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "debt",
		Aliases: []string{"debts"},
		Short:   "Track debts and repayment priority",
		Long: `Track debts and see which to pay first.

Expenses whose category matches a debt's name, ignoring case, count as
repayments of that debt.`,
	}

	cmd.AddCommand(debtAddCmd())
	cmd.AddCommand(debtEditCmd())
	cmd.AddCommand(debtDeleteCmd())
	cmd.AddCommand(debtListCmd())
	cmd.AddCommand(debtRankCmd())

	return cmd
}

func debtAddCmd() *cobra.Command {
	var (
		principal float64
		rate      float64
		fees      float64
		months    int
	)

	cmd := &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a debt",
		Example: `  tally debt add "Car Loan" --principal 12000 --months 12 --rate 5 --fees 100`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if !cmd.Flags().Changed("principal") {
				if principal, err = p.PromptAmount(ctx, "Principal amount"); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("months") {
				if months, err = p.PromptInt(ctx, "Months remaining", 1); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("rate") {
				if rate, err = p.PromptNonNegative(ctx, "Interest rate (%)"); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("fees") {
				if fees, err = p.PromptNonNegative(ctx, "Extra fees"); err != nil {
					return err
				}
			}

			debt, err := s.engine.AddDebt(args[0], principal, months, rate, fees)
			if err != nil {
				return userError("Debt not added", err)
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("Added %s: %s/month for %d months",
				debt.Name, s.format.Money(debt.Installment()), debt.MonthsRemaining)))

			return s.save(ctx)
		},
	}

	cmd.Flags().Float64Var(&principal, "principal", 0, "amount borrowed")
	cmd.Flags().IntVar(&months, "months", 0, "months remaining")
	cmd.Flags().Float64Var(&rate, "rate", 0, "interest rate in percent")
	cmd.Flags().Float64Var(&fees, "fees", 0, "extra fees")

	return cmd
}

func debtEditCmd() *cobra.Command {
	var (
		principal float64
		rate      float64
		fees      float64
		months    int
	)

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Change the terms of a debt",
		Long: `Change any of principal, months, rate and fees. Terms that are not
given keep their current value. Nothing changes if any new value is invalid.`,
		Example: `  tally debt edit "car loan" --months 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update ledger.DebtUpdate
			if cmd.Flags().Changed("principal") {
				update.Principal = &principal
			}
			if cmd.Flags().Changed("months") {
				update.MonthsRemaining = &months
			}
			if cmd.Flags().Changed("rate") {
				update.InterestRate = &rate
			}
			if cmd.Flags().Changed("fees") {
				update.ExtraFees = &fees
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			debt, err := s.engine.UpdateDebt(args[0], update)
			if err != nil {
				return userError("Debt not updated", err)
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("Updated %s: %s/month, %s remaining",
				debt.Name, s.format.Money(debt.Installment()), s.format.Money(debt.Remaining()))))

			return s.save(cmd.Context())
		},
	}

	cmd.Flags().Float64Var(&principal, "principal", 0, "new principal")
	cmd.Flags().IntVar(&months, "months", 0, "new months remaining")
	cmd.Flags().Float64Var(&rate, "rate", 0, "new interest rate in percent")
	cmd.Flags().Float64Var(&fees, "fees", 0, "new extra fees")

	return cmd
}

func debtDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.engine.DeleteDebt(args[0]); err != nil {
				return userError("Debt not deleted", err)
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("Deleted debt %s", args[0])))

			return s.save(cmd.Context())
		},
	}
}

func debtListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List debts with repayment progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			debts := s.engine.Debts().All()
			if len(debts) == 0 {
				s.println(cli.InfoStyle.Render("No debts. Use 'tally debt add' to record one."))
				return nil
			}

			s.println(cli.FormatTitle("Debts"))
			return s.format.WriteDebts(s.out, debts)
		},
	}
}

func debtRankCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rank",
		Aliases: []string{"priority"},
		Short:   "Rank debts by monthly installment, highest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			ranking := s.engine.Ranking()
			if len(ranking) == 0 {
				s.println(cli.InfoStyle.Render("No debts."))
				return nil
			}

			s.println(cli.FormatTitle("Priority Debts"))
			return s.format.WriteRanking(s.out, ranking)
		},
	}
}
