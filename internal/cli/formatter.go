package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/service"
)

// RenderPrediction formats a category prediction with its confidence.
func RenderPrediction(pred *model.Prediction, autoApply bool) string {
	var sb strings.Builder
	sb.WriteString(BoldStyle.Render(pred.Category))
	sb.WriteString(SubtleStyle.Render(fmt.Sprintf(" (%.1f%% confidence)", pred.Confidence*100)))
	if autoApply {
		sb.WriteString(" " + FormatSuccess("auto-applied"))
	}
	return sb.String()
}

// RenderAnomalies formats flagged spending days, one line each.
func RenderAnomalies(records []model.AnomalyRecord) string {
	if len(records) == 0 {
		return FormatSuccess("No unusual spending days detected.")
	}

	var sb strings.Builder
	sb.WriteString(FormatTitle(fmt.Sprintf("%d unusual spending days", len(records))))
	sb.WriteString("\n")
	for _, record := range records {
		style := WarningStyle
		if record.Severity == model.SeverityHigh {
			style = ErrorStyle
		}
		sb.WriteString(fmt.Sprintf("%s %s  $%.2f across %d transactions (%s)\n",
			AlertIcon,
			record.Date.Format("2006-01-02"),
			record.TotalSpent,
			record.TransactionCount,
			style.Render(string(record.Severity))))
	}
	return sb.String()
}

// RenderRecommendations formats stored recommendations with their ids so
// they can be dismissed.
func RenderRecommendations(recs []service.StoredRecommendation) string {
	if len(recs) == 0 {
		return SubtleStyle.Render("No recommendations right now.")
	}

	var sb strings.Builder
	for _, rec := range recs {
		sb.WriteString(fmt.Sprintf("%s [%d] %s\n", BulbIcon, rec.ID,
			priorityStyle(rec.Rec.Priority).Render(rec.Rec.Title)))
		sb.WriteString("   " + rec.Rec.Description + "\n")
		if rec.Rec.PotentialSavings > 0 {
			sb.WriteString(SubtleStyle.Render(
				fmt.Sprintf("   potential savings: $%.2f", rec.Rec.PotentialSavings)) + "\n")
		}
	}
	return sb.String()
}

func priorityStyle(priority model.Priority) lipgloss.Style {
	switch priority {
	case model.PriorityCritical, model.PriorityHigh:
		return ErrorStyle
	case model.PriorityMedium:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

// RenderForecast formats a spending projection.
func RenderForecast(result *model.ForecastResult) string {
	var sb strings.Builder
	sb.WriteString(FormatTitle(fmt.Sprintf("Spending forecast, next %d days", len(result.Values))))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s Projected total: %s\n", MoneyIcon,
		BoldStyle.Render(fmt.Sprintf("$%.2f", result.Total))))
	sb.WriteString(SubtleStyle.Render("method: "+string(result.Method)) + "\n\n")

	for i, value := range result.Values {
		sb.WriteString(fmt.Sprintf("%s  $%.2f\n",
			result.Dates[i].Format("2006-01-02"), value))
	}
	return sb.String()
}

// RenderProfile formats a spending habits profile.
func RenderProfile(profile *model.Profile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Profile:           %s\n", BoldStyle.Render(profile.SpendingProfile)))
	sb.WriteString(fmt.Sprintf("Pattern:           %s\n", profile.SpendingPattern))
	sb.WriteString(fmt.Sprintf("Primary category:  %s\n", profile.PrimaryCategory))
	sb.WriteString(fmt.Sprintf("Preferred payment: %s\n", profile.PreferredPayment))
	sb.WriteString(fmt.Sprintf("Mean transaction:  $%.2f (stddev $%.2f)\n",
		profile.MeanAmount, profile.StddevAmount))
	sb.WriteString(fmt.Sprintf("Frequency:         %.2f transactions/day\n", profile.Frequency))

	if len(profile.TopCategoryRatios) > 0 {
		sb.WriteString("\nTop categories:\n")
		for _, category := range sortedByRatio(profile.TopCategoryRatios) {
			sb.WriteString(fmt.Sprintf("  %-20s %5.1f%%\n",
				category, profile.TopCategoryRatios[category]*100))
		}
	}
	return sb.String()
}

// RenderSummary formats a spending summary for a period.
func RenderSummary(summary *service.SpendingSummary) string {
	var sb strings.Builder
	sb.WriteString(FormatTitle(fmt.Sprintf("Spending %s to %s",
		summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"))))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total: %s over %d transactions (avg $%.2f)\n\n",
		BoldStyle.Render(fmt.Sprintf("$%.2f", summary.TotalAmount)),
		summary.Count, summary.AverageAmount))

	if len(summary.ByCategory) > 0 {
		sb.WriteString(TableHeaderStyle.Render("By category") + "\n")
		for _, category := range sortedByAmount(summary.ByCategory) {
			label := category
			if label == "" {
				label = "(uncategorized)"
			}
			entry := summary.ByCategory[category]
			sb.WriteString(fmt.Sprintf("  %-24s $%10.2f  (%d)\n", label, entry.Amount, entry.Count))
		}
	}
	return sb.String()
}

func sortedByRatio(ratios map[string]float64) []string {
	keys := make([]string, 0, len(ratios))
	for key := range ratios {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if ratios[keys[i]] != ratios[keys[j]] {
			return ratios[keys[i]] > ratios[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedByAmount(entries map[string]service.CategorySummary) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if entries[keys[i]].Amount != entries[keys[j]].Amount {
			return entries[keys[i]].Amount > entries[keys[j]].Amount
		}
		return keys[i] < keys[j]
	})
	return keys
}
