package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// =============================================================================
// Risk Metrics Engine - 순수 계산기
// =============================================================================

// Engine 리스크 지표 엔진 (순수 계산기)
// ⭐ SSOT: 데이터 적재/영속화/전송은 상위 레이어에서 조립.
// internal/risk는 메모리 위 시계열에 대한 계산만 담당하며 상태를 갖지 않는다.
type Engine struct {
	opts Options
}

// NewEngine creates a risk engine with the given options.
func NewEngine(opts Options) *Engine {
	if opts.PeriodsPerYear <= 0 {
		opts.PeriodsPerYear = DefaultPeriodsPerYear
	}
	if opts.VaRHorizon <= 0 {
		opts.VaRHorizon = 1
	}
	if len(opts.ConfidenceLevels) == 0 {
		opts.ConfidenceLevels = []float64{0.95, 0.99}
	}
	if opts.ReturnMethod == "" {
		opts.ReturnMethod = ReturnSimple
	}
	return &Engine{opts: opts}
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// =============================================================================
// Sharpe / Sortino
// =============================================================================

// SharpeRatio 연환산 샤프 지수
// excess = returns - riskFreeRate/periodsPerYear
// 변동성이 0인 상수 수익률 계열은 에러가 아니라 정확히 0.0을 반환한다.
// 무위험 평탄 계열은 이 공식 규약에서 위험조정수익률 순위를 매길 수 없기 때문.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: got %d returns, need at least 2 for Sharpe", ErrInsufficientData, len(returns))
	}

	excess := excessReturns(returns, riskFreeRate, periodsPerYear)
	sd := stat.StdDev(excess, nil)
	if sd == 0 {
		return 0.0, nil // 변동성 0 → 규약상 0.0 (NaN/Inf 아님)
	}

	return stat.Mean(excess, nil) / sd * math.Sqrt(float64(periodsPerYear)), nil
}

// SortinoRatio 연환산 소르티노 지수
// 분자는 Sharpe와 동일, 분모는 target 미만 수익률의 하방 편차만 사용.
// 하방 관측치가 없으면: 초과수익 평균이 양수일 때 +Inf, 아니면 0.0.
func SortinoRatio(returns []float64, riskFreeRate, target float64, periodsPerYear int) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: got %d returns, need at least 2 for Sortino", ErrInsufficientData, len(returns))
	}

	excess := excessReturns(returns, riskFreeRate, periodsPerYear)
	meanExcess := stat.Mean(excess, nil)

	var sumSq float64
	var count int
	for _, r := range returns {
		if r < target {
			d := r - target
			sumSq += d * d
			count++
		}
	}

	if count == 0 || sumSq == 0 {
		if meanExcess > 0 {
			return math.Inf(1), nil
		}
		return 0.0, nil
	}

	downside := AnnualizeStdDev(math.Sqrt(sumSq/float64(count)), periodsPerYear)
	annualExcess := AnnualizeMean(meanExcess, periodsPerYear)

	return annualExcess / downside, nil
}

// excessReturns 기간별 초과수익률 (무위험 수익률은 연환산 입력을 기간으로 분해)
func excessReturns(returns []float64, riskFreeRate float64, periodsPerYear int) []float64 {
	rfPerPeriod := riskFreeRate / float64(periodsPerYear)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - rfPerPeriod
	}
	return excess
}

// =============================================================================
// Maximum Drawdown
// =============================================================================

// MaxDrawdown 가격 곡선의 최대 낙폭
// drawdown(t) = (price(t) - runningMax(t)) / runningMax(t)
// 반환: 양수 크기 + 고점(저점 직전 마지막 runningMax) / 저점 시각.
// 단조 비감소 계열은 정확히 0.0이며 고점/저점은 시계열 시작 시각.
func MaxDrawdown(prices PriceSeries) (DrawdownResult, error) {
	if len(prices) == 0 {
		return DrawdownResult{}, fmt.Errorf("%w: empty price series for drawdown", ErrInsufficientData)
	}

	runningMax := prices[0].Price
	peakIdx := 0
	minDD := 0.0
	bestPeak, bestTrough := 0, 0

	for i, p := range prices {
		if p.Price >= runningMax {
			runningMax = p.Price
			peakIdx = i
		}
		dd := (p.Price - runningMax) / runningMax
		if dd < minDD {
			minDD = dd
			bestPeak = peakIdx
			bestTrough = i
		}
	}

	return DrawdownResult{
		MaxDrawdown: math.Abs(minDD), // 크기는 항상 양수 또는 0 (-0.0 방지)
		PeakAt:      prices[bestPeak].Time,
		TroughAt:    prices[bestTrough].Time,
	}, nil
}

// =============================================================================
// Beta
// =============================================================================

// Beta 벤치마크 대비 베타 = cov(asset, benchmark) / var(benchmark)
// 두 시계열의 타임스탬프 교집합 위에서만 계산한다.
// 분산이 0이거나 정렬된 점이 2개 미만이면 1.0 (중립 폴백, 에러 아님).
// 이 기본값은 명시적 규약이며 조용한 버그의 은폐가 아니다.
func Beta(asset, benchmark ReturnSeries) (float64, error) {
	if len(asset.Points) == 0 || len(benchmark.Points) == 0 {
		return 0, fmt.Errorf("%w: both series must be non-empty for beta", ErrInsufficientData)
	}

	benchByTime := make(map[int64]float64, len(benchmark.Points))
	for _, p := range benchmark.Points {
		benchByTime[p.Time.UnixNano()] = p.Value
	}

	var assetAligned, benchAligned []float64
	for _, p := range asset.Points {
		if bv, ok := benchByTime[p.Time.UnixNano()]; ok {
			assetAligned = append(assetAligned, p.Value)
			benchAligned = append(benchAligned, bv)
		}
	}

	if len(assetAligned) < 2 {
		return 1.0, nil // 정렬 교집합 부족 → 중립 폴백
	}

	benchVar := stat.Variance(benchAligned, nil)
	if benchVar == 0 {
		return 1.0, nil // 벤치마크 분산 0 → 중립 폴백
	}

	return stat.Covariance(assetAligned, benchAligned, nil) / benchVar, nil
}

// =============================================================================
// Full Analysis
// =============================================================================

// Analyze computes the full RiskMetricsResult for one asset.
// benchmark가 nil이면 Beta는 결과에서 명시적으로 빠진다 (0 대체 금지).
func (e *Engine) Analyze(prices PriceSeries, benchmark PriceSeries) (*RiskMetricsResult, error) {
	returns, err := ComputeReturns(prices, e.opts.ReturnMethod)
	if err != nil {
		return nil, fmt.Errorf("compute returns: %w", err)
	}
	values := returns.Values()

	annualRet, err := AnnualizedReturn(values, e.opts.PeriodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("annualized return: %w", err)
	}
	annualVol, err := AnnualizedVolatility(values, e.opts.PeriodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("annualized volatility: %w", err)
	}

	varEstimates, err := EstimateVaR(values, e.opts.ConfidenceLevels, e.opts.VaRHorizon)
	if err != nil {
		return nil, fmt.Errorf("estimate VaR: %w", err)
	}

	sharpe, err := SharpeRatio(values, e.opts.RiskFreeRate, e.opts.PeriodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("sharpe: %w", err)
	}
	sortino, err := SortinoRatio(values, e.opts.RiskFreeRate, 0, e.opts.PeriodsPerYear)
	if err != nil {
		return nil, fmt.Errorf("sortino: %w", err)
	}

	drawdown, err := MaxDrawdown(prices)
	if err != nil {
		return nil, fmt.Errorf("max drawdown: %w", err)
	}

	result := &RiskMetricsResult{
		TotalReturn:      CumulativeReturn(returns),
		AnnualizedReturn: annualRet,
		AnnualizedVol:    annualVol,
		VaR:              varEstimates,
		Sharpe:           sharpe,
		Sortino:          sortino,
		Drawdown:         drawdown,
		SampleCount:      len(values),
	}

	if benchmark != nil {
		benchReturns, err := ComputeReturns(benchmark, e.opts.ReturnMethod)
		if err != nil {
			return nil, fmt.Errorf("compute benchmark returns: %w", err)
		}
		beta, err := Beta(returns, benchReturns)
		if err != nil {
			return nil, fmt.Errorf("beta: %w", err)
		}
		result.Beta = &beta
	}

	return result, nil
}
