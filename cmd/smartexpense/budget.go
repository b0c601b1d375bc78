package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Darshu236/smartexpense-server/internal/cli"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget [amount]",
		Short: "Set the monthly or a per-category budget",
		Long: `Set a spending budget used by the recommendation rules.

Without --category, sets the overall monthly budget.

Examples:
  smartexpense budget 2000
  smartexpense budget --category "Food & Dining" 400`,
		Args: cobra.ExactArgs(1),
		RunE: runBudget,
	}

	cmd.Flags().StringP("category", "c", "", "Category to budget (default: overall monthly)")
	return cmd
}

func runBudget(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	ctx := cmd.Context()

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("amount must be a positive number, got %q", args[0])
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if category == "" {
		if err := store.SetMonthlyBudget(ctx, currentTenant(), amount); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Monthly budget set to $%.2f.", amount)))
		return nil
	}

	if err := store.SetCategoryBudget(ctx, currentTenant(), category, amount); err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s budget set to $%.2f.", category, amount)))
	return nil
}
