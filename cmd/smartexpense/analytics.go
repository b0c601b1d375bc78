package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Darshu236/smartexpense-server/internal/classify"
	"github.com/Darshu236/smartexpense-server/internal/cli"
	"github.com/Darshu236/smartexpense-server/internal/engine"
)

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the category classifier from labeled transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			_, result, err := trainedEngine(ctx, store)
			if err != nil {
				return err
			}
			if !result.Trained {
				return fmt.Errorf("not enough labeled transactions to train (have %d, need %d)",
					result.SourceCount, classify.MinCorpusSize)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Trained on %d transactions across %d categories: %s",
				result.SourceCount, len(result.Categories),
				strings.Join(result.Categories, ", "))))
			return nil
		},
	}
}

func predictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict [title]",
		Short: "Predict a category for a transaction title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, _, err := trainedEngine(ctx, store)
			if err != nil {
				return err
			}

			suggestion, err := eng.SuggestCategory(currentTenant(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderPrediction(&suggestion.Prediction, suggestion.AutoApply))
			return nil
		},
	}
}

func anomaliesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "anomalies",
		Short: "Flag days with unusual spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := loadAllTransactions(ctx, store)
			if err != nil {
				return err
			}

			records, err := engine.New(engine.DefaultConfig()).DetectAnomalies(transactions)
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderAnomalies(records))
			return nil
		},
	}
}

func habitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "habits",
		Short: "Show your spending habits profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := loadAllTransactions(ctx, store)
			if err != nil {
				return err
			}

			profile, err := engine.New(engine.DefaultConfig()).Profile(transactions)
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderBox("Spending Habits", cli.RenderProfile(profile)))
			return nil
		},
	}
}

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project daily spending for the coming days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, _ := cmd.Flags().GetInt("days")
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			transactions, err := loadAllTransactions(ctx, store)
			if err != nil {
				return err
			}

			result, err := engine.New(engine.DefaultConfig()).Forecast(transactions, days)
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderForecast(result))
			return nil
		},
	}

	cmd.Flags().IntP("days", "n", 30, "Forecast horizon in days")
	return cmd
}
