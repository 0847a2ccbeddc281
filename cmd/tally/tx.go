package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction", "transactions"},
		Short:   "Record and review transactions",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txDeleteCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	var (
		description string
		category    string
		kind        string
		amount      float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Long: `Record a transaction stamped with the current time.

Missing values are prompted for. Expenses count toward the budget and the debt
whose name matches the category, ignoring case.`,
		Example: `  tally tx add --desc "Lunch" --amount 12.50 --kind E --category Food
  tally tx add`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			if !cmd.Flags().Changed("desc") {
				if description, err = p.PromptString(ctx, "Description"); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("amount") {
				if amount, err = p.PromptAmount(ctx, "Amount"); err != nil {
					return err
				}
			}

			var k model.Kind
			if cmd.Flags().Changed("kind") {
				if k, err = model.ParseKind(kind); err != nil {
					return userError("Invalid transaction type", err)
				}
			} else if k, err = p.PromptKind(ctx); err != nil {
				return err
			}

			if !cmd.Flags().Changed("category") {
				if category, err = p.PromptString(ctx, "Category"); err != nil {
					return err
				}
			}

			result, err := s.engine.AddTransaction(description, amount, k, category)
			if err != nil {
				return userError("Transaction not recorded", err)
			}
			s.reportTransaction(result)

			return s.save(ctx)
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "d", "", "description")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "amount, greater than zero")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "I for income, E for expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category")

	return cmd
}

func txListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			txns := s.engine.Ledger().SortedByTimestampDescending()
			if len(txns) == 0 {
				s.println(cli.InfoStyle.Render("No transactions. Use 'tally tx add' to record one."))
				return nil
			}
			if limit > 0 && limit < len(txns) {
				txns = txns[:limit]
			}

			s.println(cli.FormatTitle("Transactions"))
			if err := s.format.WriteTransactions(s.out, txns); err != nil {
				return err
			}

			d := s.engine.Dashboard()
			s.println()
			s.println(s.format.Summary(d.TotalIncome, d.TotalExpense, d.Net))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many transactions")

	return cmd
}

func txDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete a transaction by its number in 'tx list'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction number %q", args[0])
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			tx, err := s.engine.Ledger().At(position)
			if err != nil {
				return userError("Transaction not deleted", err)
			}

			if !force {
				p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, promptErr := p.PromptYesNo(ctx, fmt.Sprintf("Delete %q (%s %s)?",
					tx.Description, tx.Kind, s.format.Money(tx.Amount)))
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					s.println(cli.InfoStyle.Render("Nothing deleted."))
					return nil
				}
			}

			if _, err := s.engine.RemoveTransactionAt(position); err != nil {
				return userError("Transaction not deleted", err)
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("Deleted %q", tx.Description)))

			return s.save(ctx)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
