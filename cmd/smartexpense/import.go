package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Darshu236/smartexpense-server/internal/cli"
	"github.com/Darshu236/smartexpense-server/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import transactions from a CSV file",
		Long: `Import expense transactions from a CSV export.

The file needs a header row with date, title (or name/description) and
amount columns; category and payment_mode are optional. Malformed rows
are skipped and reported, never fatal.

Examples:
  smartexpense import ~/Downloads/expenses.csv
  smartexpense import --dry-run ~/Downloads/expenses.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	result, err := importer.NewCSVImporter(os.Stdout).Parse(ctx, f)
	if err != nil {
		return err
	}

	for _, skipped := range result.Skipped {
		slog.Warn("Skipped row", "line", skipped.Line, "reason", skipped.Err)
	}

	if dryRun {
		fmt.Println(cli.FormatWarning(fmt.Sprintf(
			"Dry run: %d transactions parsed, %d rows skipped, nothing saved.",
			len(result.Transactions), len(result.Skipped))))
		return nil
	}

	if len(result.Transactions) == 0 {
		return fmt.Errorf("no valid transactions in %s", args[0])
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	inserted, err := store.SaveTransactions(ctx, currentTenant(), result.Transactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Imported %d transactions (%d duplicates ignored, %d rows skipped).",
		inserted, len(result.Transactions)-inserted, len(result.Skipped))))
	return nil
}
