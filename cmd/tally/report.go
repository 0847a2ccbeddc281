package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/report"
)

func reportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the ledger as YAML or JSON",
		Example: `  tally report
  tally report --format json --output ledger.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			r := report.Build(s.engine.Dashboard(), s.cfg.Display.Currency, time.Now())

			var w io.Writer = s.out
			if output != "" {
				path := config.ExpandPath(output)
				f, err := os.Create(path) //nolint:gosec // user-chosen output path
				if err != nil {
					return fmt.Errorf("failed to create report file: %w", err)
				}
				defer func() {
					if closeErr := f.Close(); closeErr != nil {
						slog.Error("failed to close report file", "error", closeErr)
					}
				}()
				w = f
			}

			if err := report.Write(w, r, format); err != nil {
				return err
			}
			if output != "" {
				s.println(cli.FormatSuccess(fmt.Sprintf("Report written to %s", output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatYAML, "output format (yaml, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}
