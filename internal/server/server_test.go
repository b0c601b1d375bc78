package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darshu236/smartexpense-server/internal/engine"
	"github.com/Darshu236/smartexpense-server/internal/model"
	"github.com/Darshu236/smartexpense-server/internal/testutil"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	e, _ := newTestServerWithDB(t)
	return e
}

func newTestServerWithDB(t *testing.T) (*echo.Echo, *testutil.TestDB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	return New(engine.New(engine.DefaultConfig()), db.Storage, nil), db
}

func doJSON(t *testing.T, e *echo.Echo, method, path, tenant, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tenant != "" {
		req.Header.Set(TenantHeader, tenant)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// seedBody builds a transactions payload of count rows spread across days.
func seedBody(count int, category string) string {
	var sb strings.Builder
	sb.WriteString(`{"transactions":[`)
	for i := 0; i < count; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		day := 1 + i%28
		sb.WriteString(fmt.Sprintf(
			`{"date":"2024-06-%02d","title":"merchant visit number %d","amount":%d,"category":%q,"payment_mode":"card"}`,
			day, i, 20+i, category))
	}
	sb.WriteString("]}")
	return sb.String()
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSaveTransactions(t *testing.T) {
	e := newTestServer(t)

	t.Run("valid batch with malformed rows skipped", func(t *testing.T) {
		body := `{"transactions":[
			{"date":"2024-06-01","title":"Coffee","amount":4.5},
			{"date":"bad-date","title":"Lunch","amount":12},
			{"date":"2024-06-02","title":"","amount":9},
			{"date":"2024-06-03","title":"Dinner","amount":-5}
		]}`
		rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SaveTransactionsResponse
		decode(t, rec, &resp)
		assert.Equal(t, 1, resp.Inserted)
		assert.Equal(t, 4, resp.Received)
		assert.Equal(t, 3, resp.Skipped)
	})

	t.Run("duplicate rows are not reinserted", func(t *testing.T) {
		body := `{"transactions":[{"date":"2024-06-01","title":"Coffee","amount":4.5}]}`
		rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SaveTransactionsResponse
		decode(t, rec, &resp)
		assert.Equal(t, 0, resp.Inserted)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme", `{"transactions":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTransactionsTenantIsolation(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme",
		`{"transactions":[{"date":"2024-06-01","title":"Coffee","amount":4.5}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/transactions", "globex", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Transactions []TransactionPayload `json:"transactions"`
	}
	decode(t, rec, &resp)
	assert.Empty(t, resp.Transactions)

	rec = doJSON(t, e, http.MethodGet, "/api/transactions", "acme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Len(t, resp.Transactions, 1)
}

func TestTrainAndPredictFlow(t *testing.T) {
	e := newTestServer(t)

	t.Run("predict before training conflicts", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/ml/predict-category", "acme",
			`{"title":"starbucks coffee"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme", seedBody(15, "Food & Dining"))
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("train", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/ml/train", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp TrainResponse
		decode(t, rec, &resp)
		assert.True(t, resp.Trained)
		assert.Equal(t, 15, resp.SourceCount)
		assert.Contains(t, resp.Categories, "Food & Dining")
	})

	t.Run("predict after training", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/ml/predict-category", "acme",
			`{"title":"merchant visit"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp PredictResponse
		decode(t, rec, &resp)
		assert.Equal(t, "Food & Dining", resp.Category)
		assert.True(t, resp.AutoApply)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/ml/predict-category", "acme", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("other tenant stays untrained", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/ml/predict-category", "globex",
			`{"title":"starbucks coffee"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAutoCategorizeOnSave(t *testing.T) {
	e, db := newTestServerWithDB(t)

	seed := make([]model.Transaction, 0, 15)
	for i := 0; i < 15; i++ {
		date := time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC)
		seed = append(seed, testutil.Txn(date,
			fmt.Sprintf("merchant visit number %d", i), 20+float64(i), "Food & Dining"))
	}
	require.Equal(t, 15, db.MustSaveTransactions("acme", seed))

	rec := doJSON(t, e, http.MethodPost, "/api/ml/train", "acme", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/transactions", "acme",
		`{"transactions":[{"date":"2024-07-01","title":"merchant visit","amount":12}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SaveTransactionsResponse
	decode(t, rec, &resp)
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, 1, resp.AutoCategorized)

	labeled, err := db.Storage.GetLabeledTransactions(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, labeled, 16)
}

func TestAnalyticsInsufficientData(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme",
		`{"transactions":[{"date":"2024-06-01","title":"Coffee","amount":4.5}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, tt := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/ml/detect-anomalies"},
		{http.MethodGet, "/api/ml/habits"},
		{http.MethodGet, "/api/ml/forecast"},
	} {
		rec := doJSON(t, e, tt.method, tt.path, "acme", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, tt.path)
	}
}

func TestAnalyticsWithData(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme", seedBody(40, "Food & Dining"))
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("anomalies", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/ml/detect-anomalies", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "anomalies")
	})

	t.Run("habits", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/ml/habits", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ProfileResponse
		decode(t, rec, &resp)
		assert.NotEmpty(t, resp.SpendingProfile)
		assert.Equal(t, "card", resp.PreferredPayment)
	})

	t.Run("forecast with horizon", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/ml/forecast?days=7", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ForecastResponse
		decode(t, rec, &resp)
		assert.Len(t, resp.Values, 7)
		assert.Len(t, resp.Dates, 7)
		assert.NotEmpty(t, resp.Method)
	})

	t.Run("forecast with invalid horizon", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/ml/forecast?days=9000", "acme", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("summary", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet,
			"/api/analytics/summary?start=2024-06-01&end=2024-07-01", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SummaryResponse
		decode(t, rec, &resp)
		assert.Equal(t, 40, resp.Count)
		assert.Contains(t, resp.ByCategory, "Food & Dining")
	})
}

func TestRecommendationLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme", seedBody(40, "Food & Dining"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, e, http.MethodPost, "/api/budgets", "acme", `{"categories":{"Food & Dining":100}}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("refresh uses fallback when untrained", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/ml/recommendations", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp RefreshRecommendationsResponse
		decode(t, rec, &resp)
		assert.True(t, resp.Fallback)
		assert.NotEmpty(t, resp.Recommendations)
	})

	var storedID int64
	t.Run("list stored", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/recommendations", "acme", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Recommendations []RecommendationPayload `json:"recommendations"`
		}
		decode(t, rec, &resp)
		require.NotEmpty(t, resp.Recommendations)
		storedID = resp.Recommendations[0].ID
	})

	t.Run("dismiss", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost,
			fmt.Sprintf("/api/recommendations/%d/dismiss", storedID), "acme", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("dismiss unknown id", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/recommendations/999999/dismiss", "acme", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("dismiss malformed id", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/recommendations/abc/dismiss", "acme", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDefaultTenantHeader(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/transactions", "",
		`{"transactions":[{"date":"2024-06-01","title":"Coffee","amount":4.5}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/transactions", DefaultTenant, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coffee")
}

func TestSummaryDefaultsToTrailingWindow(t *testing.T) {
	e := newTestServer(t)

	// Recent transaction so it lands inside the trailing 30 days.
	recentDate := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	body := fmt.Sprintf(`{"transactions":[{"date":%q,"title":"Coffee","amount":4.5}]}`, recentDate)
	rec := doJSON(t, e, http.MethodPost, "/api/transactions", "acme", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/analytics/summary", "acme", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	decode(t, rec, &resp)
	assert.Equal(t, 1, resp.Count)
}
