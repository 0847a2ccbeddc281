package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/ofx"
)

func importCmd() *cobra.Command {
	var (
		category     string
		listAccounts bool
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import transactions from an OFX/QFX statement",
		Long: `Import bank or credit card transactions from an OFX/QFX file.

Debits become expenses and credits become income. Each transaction is filed
under its payee unless --category is given. The import stops when the ledger
is full; transactions already imported are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := config.ExpandPath(args[0])

			var opts []ofx.Option
			if category != "" {
				opts = append(opts, ofx.WithCategory(category))
			}
			parser := ofx.NewParser(opts...)

			file, err := os.Open(path) //nolint:gosec // user-chosen statement file
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() { _ = file.Close() }()

			if listAccounts {
				accounts, err := parser.Accounts(ctx, file)
				if err != nil {
					return err
				}
				for _, acct := range accounts {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), acct)
				}
				return nil
			}

			txns, err := parser.ParseFile(ctx, file)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions found in statement."))
				return nil
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(txns), "Importing transactions...")
			imported, skipped := 0, 0
			var importErr error
			for _, tx := range txns {
				if err := ctx.Err(); err != nil {
					importErr = err
					break
				}
				if _, err := s.engine.ImportTransaction(tx); err != nil {
					if errors.Is(err, common.ErrCapacityExceeded) {
						importErr = userError("Import stopped", err)
						break
					}
					common.LogWarn("Skipping statement entry", common.Fields{
						"description": tx.Description,
						"error":       err.Error(),
					})
					skipped++
					cli.Step(bar)
					continue
				}
				imported++
				cli.Step(bar)
			}
			_ = bar.Finish()

			s.println(cli.FormatSuccess(fmt.Sprintf("Imported %d of %d transactions", imported, len(txns))))
			if skipped > 0 {
				s.println(cli.FormatWarning(fmt.Sprintf("Skipped %d invalid entries", skipped)))
			}
			for _, b := range s.engine.Budgets().Exceeded() {
				s.println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s", b.Category)))
			}

			if dryRun {
				s.println(cli.InfoStyle.Render("Dry run: nothing saved."))
				return importErr
			}
			if imported > 0 {
				if manager, err := s.checkpoints(); err != nil {
					slog.Warn("Skipping checkpoint before import", "error", err)
				} else if _, err := manager.AutoCheckpoint(ctx, s.store, "import"); err != nil {
					slog.Warn("Skipping checkpoint before import", "error", err)
				}
				if err := s.save(ctx); err != nil {
					return errors.Join(importErr, err)
				}
			}
			return importErr
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "file every transaction under this category")
	cmd.Flags().BoolVar(&listAccounts, "accounts", false, "list the statement's account IDs and exit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without saving")

	return cmd
}
