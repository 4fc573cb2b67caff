package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/riskval/internal/ratecache"
	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/runner"
	"github.com/wonny/riskval/internal/store"
	"github.com/wonny/riskval/pkg/logger"
)

// MetricsBatchJob recomputes risk metrics for the full asset universe
type MetricsBatchJob struct {
	prices    *store.PriceRepository
	runs      *store.RunRepository
	opts      risk.Options
	rates     *ratecache.Cache // nil이면 opts.RiskFreeRate 사용
	benchmark string           // 벤치마크 자산 코드 (빈 문자열이면 베타 생략)
	lookback  int              // 조회 기간 (일)
	logger    *logger.Logger

	// 완료된 배치 알림 (nil 허용)
	onComplete func(runner.BatchResult)
}

// NewMetricsBatchJob creates the nightly metrics batch job.
func NewMetricsBatchJob(
	prices *store.PriceRepository,
	runs *store.RunRepository,
	opts risk.Options,
	rates *ratecache.Cache,
	benchmark string,
	log *logger.Logger,
	onComplete func(runner.BatchResult),
) *MetricsBatchJob {
	return &MetricsBatchJob{
		prices:     prices,
		runs:       runs,
		opts:       opts,
		rates:      rates,
		benchmark:  benchmark,
		lookback:   365,
		logger:     log,
		onComplete: onComplete,
	}
}

// Name returns the job name
func (j *MetricsBatchJob) Name() string {
	return "nightly_metrics_batch"
}

// Schedule returns the cron schedule expression
func (j *MetricsBatchJob) Schedule() string {
	return "0 0 18 * * 1-5" // 평일 18:00 (품질 게이트 통과 후)
}

// Run recomputes metrics for every asset with data in the lookback window.
// 무위험 이자율은 실행 시점에 캐시에서 해석한다.
func (j *MetricsBatchJob) Run(ctx context.Context) error {
	to := time.Now()
	from := to.AddDate(0, 0, -j.lookback)

	assets, err := j.prices.ListAssets(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list assets: %w", err)
	}
	if len(assets) == 0 {
		j.logger.Warn("Metrics batch skipped: no assets in window")
		return nil
	}

	series, err := j.prices.GetBatch(ctx, assets, from, to)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}

	benchmark := series[j.benchmark]
	if j.benchmark != "" && benchmark == nil {
		j.logger.WithField("benchmark", j.benchmark).Warn("Benchmark series missing, beta omitted")
	}

	opts := j.opts
	if j.rates != nil {
		rate, err := j.rates.Rate(ctx)
		if err != nil {
			j.logger.WithError(err).Warn("Risk-free rate refresh failed, using configured rate")
		} else {
			opts.RiskFreeRate = rate
		}
	}

	run := runner.New(risk.NewEngine(opts), j.logger)
	result, err := run.Run(ctx, series, benchmark)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}

	if err := j.runs.SaveBatch(ctx, result); err != nil {
		return fmt.Errorf("persist batch: %w", err)
	}

	if j.onComplete != nil {
		j.onComplete(result)
	}
	return nil
}
