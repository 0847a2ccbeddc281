package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/service"
	"github.com/Veraticus/tally/internal/storage"
)

// session is an engine loaded from the configured storage.
type session struct {
	cfg    *config.Config
	store  service.Storage
	engine *engine.Engine
	format cli.Formatter
	out    io.Writer
}

// openSession loads configuration, opens storage and loads the ledger.
func openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()

	cfg, err := config.LoadLedgerConfig(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Configuration is invalid", err)
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	e := engine.New(engine.Limits{
		Transactions: cfg.Limits.Transactions,
		Budgets:      cfg.Limits.Budgets,
		Debts:        cfg.Limits.Debts,
	})
	if err := e.Load(ctx, store); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &session{
		cfg:    cfg,
		store:  store,
		engine: e,
		format: cli.NewFormatter(cfg.Display.Currency),
		out:    cmd.OutOrStdout(),
	}, nil
}

func (s *session) save(ctx context.Context) error {
	if err := s.engine.Save(ctx, s.store); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

// reload reads the ledger from storage again and returns its current view.
func (s *session) reload(ctx context.Context) (engine.Dashboard, error) {
	e := engine.New(engine.Limits{
		Transactions: s.cfg.Limits.Transactions,
		Budgets:      s.cfg.Limits.Budgets,
		Debts:        s.cfg.Limits.Debts,
	})
	if err := e.Load(ctx, s.store); err != nil {
		return engine.Dashboard{}, err
	}
	s.engine = e
	return e.Dashboard(), nil
}

func (s *session) println(a ...any) {
	if _, err := fmt.Fprintln(s.out, a...); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

// userError turns rejected input into a message for the terminal. Other
// errors pass through unchanged.
func userError(action string, err error) error {
	if err == nil {
		return nil
	}
	if common.IsValidation(err) {
		return common.NewUserError(action, err)
	}
	return err
}

// isInputEnd reports whether err means the user stopped answering prompts.
func isInputEnd(err error) bool {
	return errors.Is(err, cli.ErrInputClosed) ||
		errors.Is(err, cli.ErrInputCancelled) ||
		errors.Is(err, context.Canceled)
}

// reportTransaction prints the effect of a recorded transaction.
func (s *session) reportTransaction(result engine.TransactionResult) {
	tx := result.Transaction
	s.println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s in %s",
		tx.Kind, s.format.Money(tx.Amount), tx.Category)))

	if !tx.IsExpense() {
		return
	}
	if result.BudgetExceeded() {
		b := result.Budget
		s.println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s: spent %s of %s",
			b.Category, s.format.Money(b.Spent), s.format.Money(b.Limit))))
	}
	if result.Debt != nil {
		d := result.Debt
		s.println(cli.FormatInfo(fmt.Sprintf("Counted toward %s: %s remaining",
			d.Name, s.format.Money(d.Remaining()))))
	}
}
