package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Darshu236/smartexpense-server/internal/classify"
	"github.com/Darshu236/smartexpense-server/internal/common"
	"github.com/Darshu236/smartexpense-server/internal/engine"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/recommend"
	"github.com/Darshu236/smartexpense-server/internal/service"
)

// TenantHeader names the header carrying the tenant identifier. Requests
// without it fall into a shared default tenant.
const (
	TenantHeader  = "X-Tenant-ID"
	DefaultTenant = "default"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	engine *engine.Engine
	store  service.Storage
}

// NewHandler creates the handler set.
func NewHandler(eng *engine.Engine, store service.Storage) *Handler {
	return &Handler{engine: eng, store: store}
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health returns a simple service status.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func tenantOf(c echo.Context) string {
	if tenant := c.Request().Header.Get(TenantHeader); tenant != "" {
		return tenant
	}
	return DefaultTenant
}

// TransactionPayload is the wire form of a transaction.
type TransactionPayload struct {
	Date        string  `json:"date"`
	Title       string  `json:"title"`
	Category    string  `json:"category,omitempty"`
	PaymentMode string  `json:"payment_mode,omitempty"`
	Amount      float64 `json:"amount"`
}

func (p *TransactionPayload) toModel() (model.Transaction, error) {
	date, err := parseDate(p.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	txn := model.Transaction{
		Date:        date,
		Title:       p.Title,
		Category:    p.Category,
		PaymentMode: p.PaymentMode,
		Amount:      p.Amount,
	}
	txn.Hash = txn.GenerateHash()
	return txn, nil
}

func toPayload(txn model.Transaction) TransactionPayload {
	return TransactionPayload{
		Date:        txn.Date.Format("2006-01-02"),
		Title:       txn.Title,
		Category:    txn.Category,
		PaymentMode: txn.PaymentMode,
		Amount:      txn.Amount,
	}
}

func parseDate(s string) (time.Time, error) {
	for _, format := range []string{"2006-01-02", time.RFC3339} {
		if date, err := time.Parse(format, s); err == nil {
			return date.UTC(), nil
		}
	}
	return time.Time{}, errors.New("date must be YYYY-MM-DD or RFC3339")
}

// SaveTransactionsRequest is the bulk save payload.
type SaveTransactionsRequest struct {
	Transactions []TransactionPayload `json:"transactions"`
}

// SaveTransactionsResponse reports how many rows were stored.
type SaveTransactionsResponse struct {
	Inserted        int `json:"inserted"`
	Received        int `json:"received"`
	Skipped         int `json:"skipped"`
	AutoCategorized int `json:"auto_categorized"`
}

// SaveTransactions stores a batch of transactions. Malformed entries are
// skipped, not fatal. Uncategorized rows get the classifier's prediction
// applied when it clears the auto-apply policy.
func (h *Handler) SaveTransactions(c echo.Context) error {
	var req SaveTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Transactions) == 0 {
		return badRequest(c, "transactions is required")
	}

	var valid []model.Transaction
	for _, payload := range req.Transactions {
		txn, err := payload.toModel()
		if err != nil || txn.Title == "" || txn.Amount <= 0 {
			continue
		}
		valid = append(valid, txn)
	}

	ctx := c.Request().Context()
	tenant := tenantOf(c)

	var inserted int
	if len(valid) > 0 {
		var err error
		inserted, err = h.store.SaveTransactions(ctx, tenant, valid)
		if err != nil {
			return serverError(c, err)
		}
	}

	var autoCategorized int
	if h.engine.ClassifierTrained(tenant) {
		for _, txn := range valid {
			if txn.Category != "" {
				continue
			}
			suggestion, err := h.engine.SuggestCategory(tenant, txn.Title)
			if err != nil || !suggestion.AutoApply {
				continue
			}
			if err := h.store.UpdateTransactionCategory(ctx, tenant, txn.Hash,
				suggestion.Prediction.Category); err != nil {
				continue
			}
			autoCategorized++
		}
	}

	return c.JSON(http.StatusOK, SaveTransactionsResponse{
		Inserted:        inserted,
		Received:        len(req.Transactions),
		Skipped:         len(req.Transactions) - len(valid),
		AutoCategorized: autoCategorized,
	})
}

// ListTransactions returns the tenant's transactions, optionally filtered
// by category and date range.
func (h *Handler) ListTransactions(c echo.Context) error {
	filter := service.TransactionFilter{Category: c.QueryParam("category")}
	if v := c.QueryParam("start"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			return badRequest(c, "invalid start date")
		}
		filter.StartDate = &date
	}
	if v := c.QueryParam("end"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			return badRequest(c, "invalid end date")
		}
		filter.EndDate = &date
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return badRequest(c, "invalid limit")
		}
		filter.Limit = limit
	}

	transactions, err := h.store.GetTransactions(c.Request().Context(), tenantOf(c), filter)
	if err != nil {
		return serverError(c, err)
	}

	payloads := make([]TransactionPayload, 0, len(transactions))
	for _, txn := range transactions {
		payloads = append(payloads, toPayload(txn))
	}
	return c.JSON(http.StatusOK, map[string]any{"transactions": payloads})
}

// SetBudgetsRequest carries budget limits to store.
type SetBudgetsRequest struct {
	Categories map[string]float64 `json:"categories,omitempty"`
	Monthly    float64            `json:"monthly,omitempty"`
}

// SetBudgets stores the tenant's monthly and per-category budgets.
func (h *Handler) SetBudgets(c echo.Context) error {
	var req SetBudgetsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Monthly <= 0 && len(req.Categories) == 0 {
		return badRequest(c, "monthly or categories is required")
	}

	ctx := c.Request().Context()
	tenant := tenantOf(c)
	if req.Monthly > 0 {
		if err := h.store.SetMonthlyBudget(ctx, tenant, req.Monthly); err != nil {
			return serverError(c, err)
		}
	}
	for category, amount := range req.Categories {
		if err := h.store.SetCategoryBudget(ctx, tenant, category, amount); err != nil {
			return badRequest(c, err.Error())
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// TrainResponse reports a training run.
type TrainResponse struct {
	Categories  []string `json:"categories"`
	SourceCount int      `json:"source_count"`
	Trained     bool     `json:"trained"`
}

// Train fits the tenant's classifier from its stored labeled transactions.
func (h *Handler) Train(c echo.Context) error {
	labeled, err := h.store.GetLabeledTransactions(c.Request().Context(), tenantOf(c))
	if err != nil {
		return serverError(c, err)
	}

	corpus := make([]classify.TrainingPair, 0, len(labeled))
	for _, txn := range labeled {
		corpus = append(corpus, classify.TrainingPair{Title: txn.Title, Category: txn.Category})
	}

	result := h.engine.Train(tenantOf(c), corpus)
	return c.JSON(http.StatusOK, TrainResponse{
		Trained:     result.Trained,
		SourceCount: result.SourceCount,
		Categories:  result.Categories,
	})
}

// PredictRequest asks for a category prediction.
type PredictRequest struct {
	Title string `json:"title"`
}

// PredictResponse is the prediction with the auto-apply decision.
type PredictResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	AutoApply  bool    `json:"auto_apply"`
}

// PredictCategory predicts a category for a transaction title.
func (h *Handler) PredictCategory(c echo.Context) error {
	var req PredictRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	suggestion, err := h.engine.SuggestCategory(tenantOf(c), req.Title)
	if err != nil {
		return analyticsError(c, err)
	}

	return c.JSON(http.StatusOK, PredictResponse{
		Category:   suggestion.Prediction.Category,
		Confidence: suggestion.Prediction.Confidence,
		AutoApply:  suggestion.AutoApply,
	})
}

// AnomalyPayload is the wire form of one flagged day.
type AnomalyPayload struct {
	Date             string  `json:"date"`
	Severity         string  `json:"severity"`
	TotalSpent       float64 `json:"total_spent"`
	AverageAmount    float64 `json:"average_amount"`
	TransactionCount int     `json:"transaction_count"`
}

// DetectAnomalies flags unusual spending days from stored transactions.
func (h *Handler) DetectAnomalies(c echo.Context) error {
	transactions, err := h.store.GetTransactions(c.Request().Context(), tenantOf(c), service.TransactionFilter{})
	if err != nil {
		return serverError(c, err)
	}

	records, err := h.engine.DetectAnomalies(transactions)
	if err != nil {
		return analyticsError(c, err)
	}

	payloads := make([]AnomalyPayload, 0, len(records))
	for _, record := range records {
		payloads = append(payloads, AnomalyPayload{
			Date:             record.Date.Format("2006-01-02"),
			Severity:         string(record.Severity),
			TotalSpent:       record.TotalSpent,
			AverageAmount:    record.AverageAmount,
			TransactionCount: record.TransactionCount,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"anomalies": payloads})
}

// ProfileResponse is the wire form of a habits profile.
type ProfileResponse struct {
	TopCategoryRatios map[string]float64 `json:"top_category_ratios"`
	PaymentModeUsage  map[string]float64 `json:"payment_mode_usage"`
	SpendingProfile   string             `json:"spending_profile"`
	SpendingPattern   string             `json:"spending_pattern"`
	PrimaryCategory   string             `json:"primary_category"`
	PreferredPayment  string             `json:"preferred_payment"`
	MeanAmount        float64            `json:"mean_amount"`
	StddevAmount      float64            `json:"stddev_amount"`
	Frequency         float64            `json:"frequency"`
}

// Habits derives the tenant's spending profile from stored transactions.
func (h *Handler) Habits(c echo.Context) error {
	transactions, err := h.store.GetTransactions(c.Request().Context(), tenantOf(c), service.TransactionFilter{})
	if err != nil {
		return serverError(c, err)
	}

	profile, err := h.engine.Profile(transactions)
	if err != nil {
		return analyticsError(c, err)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		SpendingProfile:   profile.SpendingProfile,
		SpendingPattern:   profile.SpendingPattern,
		PrimaryCategory:   profile.PrimaryCategory,
		PreferredPayment:  profile.PreferredPayment,
		TopCategoryRatios: profile.TopCategoryRatios,
		PaymentModeUsage:  profile.PaymentModeUsage,
		MeanAmount:        profile.MeanAmount,
		StddevAmount:      profile.StddevAmount,
		Frequency:         profile.Frequency,
	})
}

// ForecastResponse is the wire form of a spending projection.
type ForecastResponse struct {
	Method string    `json:"method"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
	Total  float64   `json:"total"`
}

// Forecast projects daily spending for the requested number of days.
func (h *Handler) Forecast(c echo.Context) error {
	horizon := 0
	if v := c.QueryParam("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 365 {
			return badRequest(c, "days must be between 1 and 365")
		}
		horizon = parsed
	}

	transactions, err := h.store.GetTransactions(c.Request().Context(), tenantOf(c), service.TransactionFilter{})
	if err != nil {
		return serverError(c, err)
	}

	result, err := h.engine.Forecast(transactions, horizon)
	if err != nil {
		return analyticsError(c, err)
	}

	dates := make([]string, len(result.Dates))
	for i, date := range result.Dates {
		dates[i] = date.Format("2006-01-02")
	}
	return c.JSON(http.StatusOK, ForecastResponse{
		Method: string(result.Method),
		Dates:  dates,
		Values: result.Values,
		Total:  result.Total,
	})
}

// RecommendationPayload is the wire form of one recommendation.
type RecommendationPayload struct {
	ID               int64   `json:"id,omitempty"`
	Type             string  `json:"type"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Category         string  `json:"category,omitempty"`
	Priority         string  `json:"priority"`
	Amount           float64 `json:"amount,omitempty"`
	PotentialSavings float64 `json:"potential_savings,omitempty"`
	Dismissed        bool    `json:"dismissed,omitempty"`
}

// RefreshRecommendationsResponse reports a recommendation refresh.
type RefreshRecommendationsResponse struct {
	Recommendations []RecommendationPayload `json:"recommendations"`
	Fallback        bool                    `json:"fallback"`
}

// RefreshRecommendations regenerates and persists the tenant's
// recommendations from its stored transactions and budgets.
func (h *Handler) RefreshRecommendations(c echo.Context) error {
	ctx := c.Request().Context()
	tenant := tenantOf(c)

	transactions, err := h.store.GetTransactions(ctx, tenant, service.TransactionFilter{})
	if err != nil {
		return serverError(c, err)
	}
	budgets, err := h.store.GetBudgets(ctx, tenant)
	if err != nil {
		return serverError(c, err)
	}

	recs, fallback := h.engine.Recommend(tenant, transactions, recommend.BudgetInfo{
		MonthlyBudget:   budgets.Monthly,
		CategoryBudgets: budgets.ByCategory,
	})
	if err := h.store.SaveRecommendations(ctx, tenant, recs); err != nil {
		return serverError(c, err)
	}

	payloads := make([]RecommendationPayload, 0, len(recs))
	for _, rec := range recs {
		payloads = append(payloads, RecommendationPayload{
			Type:             rec.Type,
			Title:            rec.Title,
			Description:      rec.Description,
			Category:         rec.Category,
			Priority:         string(rec.Priority),
			Amount:           rec.Amount,
			PotentialSavings: rec.PotentialSavings,
		})
	}
	return c.JSON(http.StatusOK, RefreshRecommendationsResponse{
		Recommendations: payloads,
		Fallback:        fallback,
	})
}

// ListRecommendations returns stored recommendations.
func (h *Handler) ListRecommendations(c echo.Context) error {
	includeDismissed := c.QueryParam("include_dismissed") == "true"

	stored, err := h.store.GetRecommendations(c.Request().Context(), tenantOf(c), includeDismissed)
	if err != nil {
		return serverError(c, err)
	}

	payloads := make([]RecommendationPayload, 0, len(stored))
	for _, rec := range stored {
		payloads = append(payloads, RecommendationPayload{
			ID:               rec.ID,
			Type:             rec.Rec.Type,
			Title:            rec.Rec.Title,
			Description:      rec.Rec.Description,
			Category:         rec.Rec.Category,
			Priority:         string(rec.Rec.Priority),
			Amount:           rec.Rec.Amount,
			PotentialSavings: rec.Rec.PotentialSavings,
			Dismissed:        rec.Dismissed,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"recommendations": payloads})
}

// DismissRecommendation marks a stored recommendation as dismissed.
func (h *Handler) DismissRecommendation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid recommendation id")
	}

	if err := h.store.DismissRecommendation(c.Request().Context(), tenantOf(c), id); err != nil {
		return analyticsError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SummaryResponse is the wire form of a spending summary.
type SummaryResponse struct {
	ByCategory    map[string]CategorySummaryPayload `json:"by_category"`
	ByPaymentMode map[string]CategorySummaryPayload `json:"by_payment_mode"`
	Start         string                            `json:"start"`
	End           string                            `json:"end"`
	TotalAmount   float64                           `json:"total_amount"`
	AverageAmount float64                           `json:"average_amount"`
	Count         int                               `json:"count"`
}

// CategorySummaryPayload is one grouping bucket of the summary.
type CategorySummaryPayload struct {
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// SpendingSummary aggregates spending for a date range, defaulting to the
// trailing 30 days.
func (h *Handler) SpendingSummary(c echo.Context) error {
	end := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)

	if v := c.QueryParam("start"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return badRequest(c, "invalid start date")
		}
		start = parsed
	}
	if v := c.QueryParam("end"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return badRequest(c, "invalid end date")
		}
		end = parsed
	}

	if !start.Before(end) {
		return badRequest(c, "start must be before end")
	}

	summary, err := h.store.GetSpendingSummary(c.Request().Context(), tenantOf(c), start, end)
	if err != nil {
		return serverError(c, err)
	}

	resp := SummaryResponse{
		Start:         summary.Start.Format("2006-01-02"),
		End:           summary.End.Format("2006-01-02"),
		TotalAmount:   summary.TotalAmount,
		AverageAmount: summary.AverageAmount,
		Count:         summary.Count,
		ByCategory:    make(map[string]CategorySummaryPayload, len(summary.ByCategory)),
		ByPaymentMode: make(map[string]CategorySummaryPayload, len(summary.ByPaymentMode)),
	}
	for category, entry := range summary.ByCategory {
		resp.ByCategory[category] = CategorySummaryPayload{Amount: entry.Amount, Count: entry.Count}
	}
	for mode, entry := range summary.ByPaymentMode {
		resp.ByPaymentMode[mode] = CategorySummaryPayload{Amount: entry.Amount, Count: entry.Count}
	}
	return c.JSON(http.StatusOK, resp)
}

// analyticsError maps expected analytics failures to client status codes.
func analyticsError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInsufficientData):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, common.ErrNotTrained):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, common.ErrInvalidInput):
		return badRequest(c, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		return serverError(c, err)
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func serverError(c echo.Context, err error) error {
	common.LogError(err, "request failed", common.Fields{"path": c.Path()})
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
