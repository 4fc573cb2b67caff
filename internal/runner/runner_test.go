package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/pkg/config"
	"github.com/wonny/riskval/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func series(prices ...float64) risk.PriceSeries {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(risk.PriceSeries, len(prices))
	for i, p := range prices {
		s[i] = risk.PricePoint{Time: base.AddDate(0, 0, i), Price: p}
	}
	return s
}

func TestRunner_Run(t *testing.T) {
	r := New(risk.NewEngine(risk.DefaultOptions()), testLogger())

	batch := map[string]risk.PriceSeries{
		"005930": series(100, 101, 99, 105, 95, 100),
		"000660": series(200, 202, 198, 210, 190, 200),
	}

	result, err := r.Run(context.Background(), batch, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Assets, 2)

	// 종목명 오름차순
	assert.Equal(t, "000660", result.Assets[0].Asset)
	assert.Equal(t, "005930", result.Assets[1].Asset)

	for _, ar := range result.Assets {
		require.NotNil(t, ar.Metrics)
		assert.Nil(t, ar.Metrics.Beta)
	}
}

func TestRunner_Run_AssetFailureDoesNotAbortBatch(t *testing.T) {
	r := New(risk.NewEngine(risk.DefaultOptions()), testLogger())

	batch := map[string]risk.PriceSeries{
		"005930": series(100, 101, 99, 105),
		"BAD":    series(100), // 수익률 계산 불가
	}

	result, err := r.Run(context.Background(), batch, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	bad := result.Assets[0] // "BAD" < "005930"이 아님: 오름차순이면 005930 먼저
	for _, ar := range result.Assets {
		if ar.Asset == "BAD" {
			bad = ar
		}
	}
	assert.Nil(t, bad.Metrics)
	assert.NotEmpty(t, bad.Err)
}

func TestRunner_Run_WithBenchmark(t *testing.T) {
	r := New(risk.NewEngine(risk.DefaultOptions()), testLogger())

	bench := series(100, 101, 99, 105, 95, 100)
	batch := map[string]risk.PriceSeries{
		"005930": series(100, 101, 99, 105, 95, 100),
	}

	result, err := r.Run(context.Background(), batch, bench)
	require.NoError(t, err)

	require.Len(t, result.Assets, 1)
	require.NotNil(t, result.Assets[0].Metrics)
	require.NotNil(t, result.Assets[0].Metrics.Beta)
	assert.InDelta(t, 1.0, *result.Assets[0].Metrics.Beta, 1e-9)
}

func TestRunner_Run_Canceled(t *testing.T) {
	r := New(risk.NewEngine(risk.DefaultOptions()), testLogger()).WithWorkers(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := map[string]risk.PriceSeries{
		"005930": series(100, 101, 99),
		"000660": series(200, 202, 198),
	}

	_, err := r.Run(ctx, batch, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Run_EmptyBatch(t *testing.T) {
	r := New(risk.NewEngine(risk.DefaultOptions()), testLogger())

	result, err := r.Run(context.Background(), map[string]risk.PriceSeries{}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Assets)
	assert.Equal(t, 0, result.Succeeded)
}
