package risk

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// =============================================================================
// VaR (Value at Risk) Calculation
// =============================================================================

// stdNormal 표준정규분포 (Quantile = inverse CDF)
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ParametricVaR 정규분포 가정 VaR 계산
// VaR = -(mean*horizon + z*stdDev*sqrt(horizon)), z = Quantile(1-confidence)
// 반환값: 손실을 양수로 표현, 손실이 없으면 0
// 신뢰수준이 높을수록 VaR 크기는 같거나 커진다 (단조성 불변식).
func ParametricVaR(returns []float64, confidence, horizon float64) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: got %d returns, need at least 2 for parametric VaR",
			ErrInsufficientData, len(returns))
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("confidence must be in (0, 1), got %.4f", confidence)
	}
	if horizon <= 0 {
		return 0, fmt.Errorf("horizon must be positive, got %.4f", horizon)
	}

	mean := stat.Mean(returns, nil)
	stdDev := stat.StdDev(returns, nil)

	// z는 좌측 꼬리 분위수라 음수 (예: 95% → -1.645)
	z := stdNormal.Quantile(1.0 - confidence)

	v := -(mean*horizon + z*stdDev*math.Sqrt(horizon))
	if v < 0 {
		v = 0 // 손실 없음
	}
	return v, nil
}

// HistoricalVaR 과거 수익률 기반 VaR 계산 (분포 가정 없음)
// VaR = -percentile(returns, (1-confidence)*100), 선형 보간
// 반환값: 손실을 양수로 표현, 손실이 없으면 0
func HistoricalVaR(returns []float64, confidence float64) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("%w: empty return series for historical VaR", ErrInsufficientData)
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("confidence must be in (0, 1), got %.4f", confidence)
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	q := stat.Quantile(1.0-confidence, stat.LinInterp, sorted, nil)

	v := -q
	if v < 0 {
		v = 0 // 하위 분위수가 이익이면 손실 없음
	}
	return v, nil
}

// EstimateVaR 신뢰수준 목록에 대해 parametric/historical VaR을 함께 계산
// 결과는 입력 신뢰수준 순서를 유지한다.
func EstimateVaR(returns []float64, confidences []float64, horizon float64) ([]VaREstimate, error) {
	estimates := make([]VaREstimate, 0, len(confidences))
	for _, c := range confidences {
		p, err := ParametricVaR(returns, c, horizon)
		if err != nil {
			return nil, fmt.Errorf("parametric VaR at %.2f: %w", c, err)
		}
		h, err := HistoricalVaR(returns, c)
		if err != nil {
			return nil, fmt.Errorf("historical VaR at %.2f: %w", c, err)
		}
		estimates = append(estimates, VaREstimate{Confidence: c, Parametric: p, Historical: h})
	}
	return estimates, nil
}
