package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Darshu236/smartexpense-server/internal/cli"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import expense transactions from OFX or QFX (Quicken) files exported
from your bank. Only outflows are imported.

Examples:
  smartexpense import-ofx ~/Downloads/chase_jan_2024.qfx
  smartexpense import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	parser := ofx.NewParser()
	var allTransactions []model.Transaction
	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		transactions, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}
		if len(transactions) == 0 {
			slog.Warn("No transactions found in file", "file", filepath.Base(filePath))
			continue
		}
		allTransactions = append(allTransactions, transactions...)
	}

	if dryRun {
		fmt.Println(cli.FormatWarning(fmt.Sprintf(
			"Dry run: %d transactions parsed from %d files, nothing saved.",
			len(allTransactions), len(allFiles))))
		return nil
	}
	if len(allTransactions) == 0 {
		return fmt.Errorf("no transactions parsed")
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	inserted, err := store.SaveTransactions(ctx, currentTenant(), allTransactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Imported %d transactions from %d files (%d duplicates ignored).",
		inserted, len(allFiles), len(allTransactions)-inserted)))
	return nil
}
