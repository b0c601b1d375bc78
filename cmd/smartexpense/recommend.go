package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Darshu236/smartexpense-server/internal/cli"
	"github.com/Darshu236/smartexpense-server/internal/recommend"
)

func recommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Generate and show savings recommendations",
		RunE:  runRecommend,
	}

	cmd.Flags().Bool("refresh", false, "Regenerate recommendations before listing")
	cmd.Flags().Bool("all", false, "Include dismissed recommendations")
	cmd.Flags().Int64("dismiss", 0, "Dismiss the recommendation with the given id")
	return cmd
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")
	includeDismissed, _ := cmd.Flags().GetBool("all")
	dismissID, _ := cmd.Flags().GetInt64("dismiss")
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	tenant := currentTenant()

	if dismissID > 0 {
		if err := store.DismissRecommendation(ctx, tenant, dismissID); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Dismissed recommendation %d.", dismissID)))
		return nil
	}

	if refresh {
		transactions, err := loadAllTransactions(ctx, store)
		if err != nil {
			return err
		}
		budgets, err := store.GetBudgets(ctx, tenant)
		if err != nil {
			return err
		}

		eng, _, err := trainedEngine(ctx, store)
		if err != nil {
			return err
		}
		recs, fallback := eng.Recommend(tenant, transactions, recommend.BudgetInfo{
			MonthlyBudget:   budgets.Monthly,
			CategoryBudgets: budgets.ByCategory,
		})
		if err := store.SaveRecommendations(ctx, tenant, recs); err != nil {
			return err
		}
		if fallback {
			fmt.Println(cli.SubtleStyle.Render("Classifier untrained; using rule-based recommendations."))
		}
	}

	stored, err := store.GetRecommendations(ctx, tenant, includeDismissed)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderRecommendations(stored))
	return nil
}
