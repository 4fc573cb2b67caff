package risk

import "time"

// =============================================================================
// Return Type & Convention
// =============================================================================

// ReturnMethod 수익률 계산 방식
type ReturnMethod string

const (
	ReturnSimple ReturnMethod = "simple" // (P1 - P0) / P0
	ReturnLog    ReturnMethod = "log"    // ln(P1 / P0)
)

// VaRConvention VaR 부호 규약
// ⭐ SSOT: Loss를 양수로 표현 (VaR=0.05 → 5% 손실 가능)
// 전체 시스템에서 이 규약을 일관되게 사용
const VaRConvention = "loss_positive"

// DefaultPeriodsPerYear 연환산 기준 거래일 수
// 평균 계열은 ×252, 표준편차 계열은 ×sqrt(252)로 환산한다.
const DefaultPeriodsPerYear = 252

// =============================================================================
// Input Types (for pure calculation)
// =============================================================================

// PricePoint 시점별 가격
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// PriceSeries 단일 자산의 가격 시계열
// 호출자가 시간 오름차순 정렬을 보장한다. 엔진은 수정하지 않는다.
type PriceSeries []PricePoint

// ReturnPoint 구간 수익률 (구간 종료 시점 기준)
type ReturnPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ReturnSeries 수익률 시계열
// PriceSeries에서 파생되며 길이는 len(prices)-1.
type ReturnSeries struct {
	Points []ReturnPoint `json:"points"`
	Method ReturnMethod  `json:"method"`
}

// Values returns the raw return values in order.
func (rs ReturnSeries) Values() []float64 {
	values := make([]float64, len(rs.Points))
	for i, p := range rs.Points {
		values[i] = p.Value
	}
	return values
}

// =============================================================================
// Engine Options
// =============================================================================

// Options 리스크 지표 계산 설정
type Options struct {
	PeriodsPerYear   int          `json:"periods_per_year"`  // 기본: 252
	RiskFreeRate     float64      `json:"risk_free_rate"`    // 연환산 무위험 수익률
	ConfidenceLevels []float64    `json:"confidence_levels"` // VaR 신뢰수준 [0.95, 0.99]
	VaRHorizon       float64      `json:"var_horizon"`       // VaR 보유기간 (기간 수, 기본: 1)
	ReturnMethod     ReturnMethod `json:"return_method"`     // simple/log
}

// DefaultOptions 기본 계산 설정
func DefaultOptions() Options {
	return Options{
		PeriodsPerYear:   DefaultPeriodsPerYear,
		RiskFreeRate:     0.0,
		ConfidenceLevels: []float64{0.95, 0.99},
		VaRHorizon:       1,
		ReturnMethod:     ReturnSimple,
	}
}

// =============================================================================
// Result Types
// =============================================================================

// VaREstimate 신뢰수준별 VaR 추정치 (손실, 양수)
type VaREstimate struct {
	Confidence float64 `json:"confidence"`
	Parametric float64 `json:"parametric"`
	Historical float64 `json:"historical"`
}

// DrawdownResult 최대 낙폭과 고점/저점 시각
type DrawdownResult struct {
	MaxDrawdown float64   `json:"max_drawdown"` // 양수 크기 (0.0952 = 9.52%)
	PeakAt      time.Time `json:"peak_at"`
	TroughAt    time.Time `json:"trough_at"`
}

// RiskMetricsResult 자산 하나에 대한 리스크/성과 지표 묶음
// ⭐ SSOT: 모든 필드는 강타입. 벤치마크가 없으면 Beta는 nil이며 0으로 대체하지 않는다.
type RiskMetricsResult struct {
	TotalReturn      float64        `json:"total_return"`
	AnnualizedReturn float64        `json:"annualized_return"`
	AnnualizedVol    float64        `json:"annualized_volatility"`
	VaR              []VaREstimate  `json:"var"` // ConfidenceLevels 순서 유지
	Sharpe           float64        `json:"sharpe"`
	Sortino          float64        `json:"sortino"`
	Drawdown         DrawdownResult `json:"drawdown"`
	Beta             *float64       `json:"beta,omitempty"` // 벤치마크 없으면 absent
	SampleCount      int            `json:"sample_count"`
}
