package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Darshu236/smartexpense-server/internal/cli"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a spending summary for a period",
		Long: `Aggregate spending by category and payment mode. Defaults to the
trailing 30 days.

Examples:
  smartexpense summary
  smartexpense summary --start 2024-06-01 --end 2024-07-01`,
		RunE: runSummary,
	}

	cmd.Flags().String("start", "", "Period start (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("end", "", "Period end (YYYY-MM-DD, exclusive)")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	end := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)
	if v, _ := cmd.Flags().GetString("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", v, err)
		}
		start = parsed.UTC()
	}
	if v, _ := cmd.Flags().GetString("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid end date %q: %w", v, err)
		}
		end = parsed.UTC()
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summary, err := store.GetSpendingSummary(ctx, currentTenant(), start, end)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderSummary(summary))
	return nil
}
