package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/wonny/riskval/internal/api/handlers"
	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/runner"
	"github.com/wonny/riskval/pkg/config"
	"github.com/wonny/riskval/pkg/logger"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	engine := risk.NewEngine(risk.DefaultOptions())
	hub := NewHub(log)
	registry := NewMetricsRegistry()

	run := runner.New(engine, log)
	metricsHandler := handlers.NewMetricsHandler(run, log, hub.Broadcast)
	validateHandler := handlers.NewValidateHandler(quality.DefaultThresholds(), log)
	schemaHandler := handlers.NewSchemaHandler(log)

	return NewRouter(metricsHandler, validateHandler, schemaHandler, hub, registry, log)
}

func pricesJSON(prices ...float64) []map[string]any {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]map[string]any, len(prices))
	for i, p := range prices {
		out[i] = map[string]any{
			"time":  base.AddDate(0, 0, i).Format(time.RFC3339),
			"price": p,
		}
	}
	return out
}

func TestRouter_Health(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_ComputeMetrics(t *testing.T) {
	router := testRouter(t)

	body, _ := json.Marshal(map[string]any{
		"prices": pricesJSON(100, 101, 99, 105, 95, 100),
	})

	req := httptest.NewRequest("POST", "/api/metrics", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result risk.RiskMetricsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 5, result.SampleCount)
	assert.Len(t, result.VaR, 2)
	assert.Nil(t, result.Beta)
}

func TestRouter_ComputeMetrics_InsufficientData(t *testing.T) {
	router := testRouter(t)

	body, _ := json.Marshal(map[string]any{
		"prices": pricesJSON(100),
	})

	req := httptest.NewRequest("POST", "/api/metrics", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_ComputeMetrics_BadBody(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("POST", "/api/metrics", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ComputeBatch(t *testing.T) {
	router := testRouter(t)

	body, _ := json.Marshal(map[string]any{
		"series": map[string]any{
			"005930": pricesJSON(100, 101, 99, 105),
			"000660": pricesJSON(200, 202, 198, 210),
		},
	})

	req := httptest.NewRequest("POST", "/api/metrics/batch", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result runner.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Succeeded)
}

func TestRouter_Validate(t *testing.T) {
	router := testRouter(t)

	body, _ := json.Marshal(map[string]any{
		"table": map[string]any{
			"columns": []string{"code", "close"},
			"rows": []map[string]any{
				{"code": "005930", "close": 71200},
				{"code": "005930", "close": 71200},
			},
		},
		"rules": map[string]any{
			"thresholds":       map[string]any{"min_completeness": 0.95, "min_uniqueness": 0.99},
			"required_columns": []string{"code", "close"},
			"key_columns":      []string{"code"},
		},
	})

	req := httptest.NewRequest("POST", "/api/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"passed":false`)
	assert.Contains(t, rec.Body.String(), "uniqueness")
}

func TestRouter_SchemaValidate(t *testing.T) {
	router := testRouter(t)

	body, _ := json.Marshal(map[string]any{
		"dimensions": map[string]any{
			"dim_stock": map[string]any{
				"columns": []string{"stock_key", "code"},
				"rows": []map[string]any{
					{"stock_key": 1, "code": "005930"},
				},
			},
		},
		"facts": map[string]any{
			"fact_daily_price": map[string]any{
				"table": map[string]any{
					"columns": []string{"stock_key", "close"},
					"rows": []map[string]any{
						{"stock_key": 1, "close": 71200.0},
						{"stock_key": 9, "close": 100.0},
					},
				},
				"dimension_keys": []string{"stock_key"},
			},
		},
		"links": []map[string]any{
			{
				"fact":          "fact_daily_price",
				"fact_key":      "stock_key",
				"dimension":     "dim_stock",
				"dimension_key": "stock_key",
			},
		},
	})

	req := httptest.NewRequest("POST", "/api/schema/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)
	assert.Contains(t, rec.Body.String(), "orphan")
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	registry := NewMetricsRegistry()
	limiter := rate.NewLimiter(rate.Limit(0), 1) // 버스트 1, 재충전 없음

	handler := rateLimitMiddleware(limiter, registry)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("POST", "/api/metrics", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest("POST", "/api/metrics", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
