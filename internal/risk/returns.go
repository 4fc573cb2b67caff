package risk

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInsufficientData 요청한 통계를 내기에 시계열이 너무 짧음
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidPrice 0 이하 가격은 수익률을 정의할 수 없음
	ErrInvalidPrice = errors.New("invalid price")
	// ErrUnknownMethod simple/log 이외의 수익률 방식
	ErrUnknownMethod = errors.New("unknown return method")
)

// ComputeReturns converts a price series into a return series.
// 첫 구간은 이전 가격이 없으므로 버린다 (보간하지 않음).
func ComputeReturns(prices PriceSeries, method ReturnMethod) (ReturnSeries, error) {
	if len(prices) < 2 {
		return ReturnSeries{}, fmt.Errorf("%w: got %d prices, need at least 2", ErrInsufficientData, len(prices))
	}
	if method != ReturnSimple && method != ReturnLog {
		return ReturnSeries{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	points := make([]ReturnPoint, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev, cur := prices[i-1], prices[i]
		if prev.Price <= 0 || cur.Price <= 0 {
			return ReturnSeries{}, fmt.Errorf("%w: price must be positive, got %.4f at %s",
				ErrInvalidPrice, prev.Price, prev.Time.Format("2006-01-02"))
		}

		var value float64
		switch method {
		case ReturnSimple:
			value = cur.Price/prev.Price - 1.0
		case ReturnLog:
			value = math.Log(cur.Price / prev.Price)
		}

		// 수익률은 구간 종료 시점에 귀속
		points = append(points, ReturnPoint{Time: cur.Time, Value: value})
	}

	return ReturnSeries{Points: points, Method: method}, nil
}

// TotalReturn 누적 수익률 (기하 복리)
func TotalReturn(returns []float64) float64 {
	cum := 1.0
	for _, r := range returns {
		cum *= 1.0 + r
	}
	return cum - 1.0
}

// CumulativeReturn 수익률 방식에 맞는 누적 수익률
// simple은 복리 곱, log는 합의 지수로 환산한다. 두 방식 모두 p[n]/p[0]-1과 일치.
func CumulativeReturn(rs ReturnSeries) float64 {
	if rs.Method == ReturnLog {
		var sum float64
		for _, p := range rs.Points {
			sum += p.Value
		}
		return math.Exp(sum) - 1.0
	}
	return TotalReturn(rs.Values())
}

// =============================================================================
// Annualization
// =============================================================================
// ⭐ SSOT: 연환산 규약은 이 두 함수에서만 정의한다.
// 평균 계열: ×periodsPerYear, 표준편차 계열: ×sqrt(periodsPerYear).
// 하나의 계산 안에서는 반드시 같은 periodsPerYear를 사용해야
// Sharpe/Sortino/VaR가 내부적으로 일관된다.

// AnnualizeMean scales a per-period mean return to a yearly figure.
func AnnualizeMean(periodMean float64, periodsPerYear int) float64 {
	return periodMean * float64(periodsPerYear)
}

// AnnualizeStdDev scales a per-period standard deviation to a yearly figure.
func AnnualizeStdDev(periodStdDev float64, periodsPerYear int) float64 {
	return periodStdDev * math.Sqrt(float64(periodsPerYear))
}

// AnnualizedReturn 기간 평균 기반 연환산 수익률
func AnnualizedReturn(returns []float64, periodsPerYear int) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("%w: empty return series", ErrInsufficientData)
	}
	return AnnualizeMean(stat.Mean(returns, nil), periodsPerYear), nil
}

// AnnualizedVolatility 표본 표준편차 기반 연환산 변동성
func AnnualizedVolatility(returns []float64, periodsPerYear int) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: got %d returns, need at least 2", ErrInsufficientData, len(returns))
	}
	return AnnualizeStdDev(stat.StdDev(returns, nil), periodsPerYear), nil
}
