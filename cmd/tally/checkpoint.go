package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/storage"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkpoint",
		Aliases: []string{"checkpoints", "cp"},
		Short:   "Snapshot and restore the ledger",
		Long: `Save named snapshots of every transaction, budget and debt.

Checkpoints live in the data directory and can be restored into either
storage backend. An automatic checkpoint is taken before each import.`,
	}

	cmd.AddCommand(checkpointCreateCmd())
	cmd.AddCommand(checkpointListCmd())
	cmd.AddCommand(checkpointRestoreCmd())
	cmd.AddCommand(checkpointDeleteCmd())

	return cmd
}

func (s *session) checkpoints() (*storage.CheckpointManager, error) {
	manager, err := storage.NewCheckpointManager(s.cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoints: %w", err)
	}
	return manager, nil
}

func checkpointCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [tag]",
		Short: "Create a checkpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			manager, err := s.checkpoints()
			if err != nil {
				return err
			}

			tag := ""
			if len(args) > 0 {
				tag = args[0]
			}
			info, err := manager.Create(cmd.Context(), s.store, tag, description)
			if err != nil {
				return common.NewUserError("Checkpoint not created", err)
			}

			s.println(cli.FormatSuccess(fmt.Sprintf("Created checkpoint %s (%d transactions, %d budgets, %d debts)",
				info.ID, info.Transactions, info.Budgets, info.Debts)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "m", "", "what the checkpoint is for")

	return cmd
}

func checkpointListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checkpoints, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			manager, err := s.checkpoints()
			if err != nil {
				return err
			}
			checkpoints, err := manager.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(checkpoints) == 0 {
				s.println(cli.InfoStyle.Render("No checkpoints. Use 'tally checkpoint create' to make one."))
				return nil
			}

			rows := make([][]string, 0, len(checkpoints))
			for _, c := range checkpoints {
				kind := "manual"
				if c.IsAuto {
					kind = "auto"
				}
				rows = append(rows, []string{
					c.ID,
					humanize.Time(c.CreatedAt),
					kind,
					fmt.Sprintf("%d/%d/%d", c.Transactions, c.Budgets, c.Debts),
					c.Description,
				})
			}
			return cli.WriteTable(s.out, []string{"ID", "Created", "Kind", "Tx/Budgets/Debts", "Description"}, rows)
		},
	}
}

func checkpointRestoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <tag>",
		Short: "Replace the ledger with a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			manager, err := s.checkpoints()
			if err != nil {
				return err
			}
			info, err := manager.Get(ctx, args[0])
			if err != nil {
				return common.NewUserError("Checkpoint not restored", err)
			}

			if !force {
				p := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := p.PromptYesNo(ctx, fmt.Sprintf("Replace the current ledger with %s from %s?",
					info.ID, humanize.Time(info.CreatedAt)))
				if err != nil {
					return err
				}
				if !ok {
					s.println(cli.InfoStyle.Render("Nothing restored."))
					return nil
				}
			}

			if _, err := manager.Restore(ctx, info.ID, s.store); err != nil {
				return err
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("Restored checkpoint %s", info.ID)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func checkpointDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tag>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			manager, err := s.checkpoints()
			if err != nil {
				return err
			}
			if err := manager.Delete(cmd.Context(), args[0]); err != nil {
				return common.NewUserError("Checkpoint not deleted", err)
			}
			s.println(cli.FormatSuccess(fmt.Sprintf("Deleted checkpoint %s", args[0])))
			return nil
		},
	}
}
