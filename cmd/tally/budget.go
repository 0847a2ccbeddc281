package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets"},
		Short:   "Manage category budgets",
	}

	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetListCmd())
	cmd.AddCommand(budgetDeleteCmd())

	return cmd
}

func budgetSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Create a budget or change its limit",
		Long: `Create a budget for a category, or change the limit of an existing one.

Categories match ignoring case, so "food" updates a budget created as "Food".
Spend is always recomputed from recorded expenses.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid budget limit %q", args[1])
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			budget, result, err := s.engine.SetBudget(args[0], limit)
			if err != nil {
				return userError("Budget not set", err)
			}

			verb := "Created"
			if result == ledger.BudgetUpdated {
				verb = "Updated"
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("%s budget for %s: %s",
				verb, budget.Category, s.format.Money(budget.Limit))))
			if budget.Exceeded() {
				s.println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s: spent %s",
					budget.Category, s.format.Money(budget.Spent))))
			}

			return s.save(cmd.Context())
		},
	}
}

func budgetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with spend and remaining amount",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			budgets := s.engine.Budgets().All()
			if len(budgets) == 0 {
				s.println(cli.InfoStyle.Render("No budgets. Use 'tally budget set' to create one."))
				return nil
			}

			s.println(cli.FormatTitle("Budgets"))
			if err := s.format.WriteBudgets(s.out, budgets); err != nil {
				return err
			}

			for _, b := range s.engine.Budgets().Exceeded() {
				s.println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s", b.Category)))
			}
			return nil
		},
	}
}

func budgetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.engine.DeleteBudget(args[0]); err != nil {
				return userError("Budget not deleted", err)
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("Deleted budget for %s", args[0])))

			return s.save(cmd.Context())
		},
	}
}
