package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleReturns = []float64{
	0.012, -0.024, 0.005, -0.011, 0.031, -0.042, 0.018, 0.002,
	-0.007, 0.009, -0.019, 0.026, -0.033, 0.014, 0.001, -0.015,
	0.022, -0.028, 0.006, -0.003,
}

func TestHistoricalVaR_ConfidenceMonotonicity(t *testing.T) {
	v95, err := HistoricalVaR(sampleReturns, 0.95)
	require.NoError(t, err)
	v99, err := HistoricalVaR(sampleReturns, 0.99)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, v99, v95, "99%% VaR must not be smaller than 95%% VaR")
	assert.Greater(t, v95, 0.0)
}

func TestParametricVaR_ConfidenceMonotonicity(t *testing.T) {
	v95, err := ParametricVaR(sampleReturns, 0.95, 1)
	require.NoError(t, err)
	v99, err := ParametricVaR(sampleReturns, 0.99, 1)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, v99, v95)
	assert.Greater(t, v95, 0.0)
}

func TestParametricVaR_HorizonScaling(t *testing.T) {
	v1, err := ParametricVaR(sampleReturns, 0.95, 1)
	require.NoError(t, err)
	v5, err := ParametricVaR(sampleReturns, 0.95, 5)
	require.NoError(t, err)

	// 보유기간이 길수록 손실 가능 폭이 커진다 (평균이 작은 일반 구간)
	assert.Greater(t, v5, v1)
}

func TestHistoricalVaR_NoLoss(t *testing.T) {
	// 전 구간 이익이면 손실 크기는 0
	gains := []float64{0.01, 0.02, 0.015, 0.005, 0.03}
	v, err := HistoricalVaR(gains, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestVaR_InvalidInputs(t *testing.T) {
	_, err := HistoricalVaR(nil, 0.95)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = ParametricVaR([]float64{0.01}, 0.95, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = HistoricalVaR(sampleReturns, 1.0)
	assert.Error(t, err)

	_, err = ParametricVaR(sampleReturns, 0.95, 0)
	assert.Error(t, err)
}

func TestEstimateVaR_OrderPreserved(t *testing.T) {
	estimates, err := EstimateVaR(sampleReturns, []float64{0.99, 0.95}, 1)
	require.NoError(t, err)
	require.Len(t, estimates, 2)

	// 입력 신뢰수준 순서 그대로
	assert.Equal(t, 0.99, estimates[0].Confidence)
	assert.Equal(t, 0.95, estimates[1].Confidence)

	// 두 추정 방식 모두 단조성 유지
	assert.GreaterOrEqual(t, estimates[0].Parametric, estimates[1].Parametric)
	assert.GreaterOrEqual(t, estimates[0].Historical, estimates[1].Historical)
}
