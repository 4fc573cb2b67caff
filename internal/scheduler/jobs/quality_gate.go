package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/store"
	"github.com/wonny/riskval/internal/tabular"
	"github.com/wonny/riskval/pkg/logger"
	"github.com/wonny/riskval/pkg/redis"
)

// QualityGateJob runs the daily quality gate over the latest price batch
// ⭐ SSOT: 일일 품질 게이트 작업은 여기서만
type QualityGateJob struct {
	prices   *store.PriceRepository
	runs     *store.RunRepository
	gate     *quality.Gate
	cache    *redis.Cache // nil이면 캐시 생략
	logger   *logger.Logger
	schedule string

	// 게이트 실패 알림 (nil 허용)
	onFail func(quality.GateResult)
}

// NewQualityGateJob creates the daily gate job.
func NewQualityGateJob(
	prices *store.PriceRepository,
	runs *store.RunRepository,
	gate *quality.Gate,
	cache *redis.Cache,
	log *logger.Logger,
	onFail func(quality.GateResult),
) *QualityGateJob {
	return &QualityGateJob{
		prices:   prices,
		runs:     runs,
		gate:     gate,
		cache:    cache,
		logger:   log,
		schedule: "0 30 17 * * 1-5", // 평일 17:30 (장 마감 데이터 적재 후)
		onFail:   onFail,
	}
}

// Name returns the job name
func (j *QualityGateJob) Name() string {
	return "daily_quality_gate"
}

// Schedule returns the cron schedule expression
func (j *QualityGateJob) Schedule() string {
	return j.schedule
}

// Run executes the quality gate over today's batch
func (j *QualityGateJob) Run(ctx context.Context) error {
	runID := uuid.New().String()
	startedAt := time.Now()
	to := startedAt
	from := to.AddDate(0, 0, -1)

	log := j.logger.WithField("run_id", runID)

	assets, err := j.prices.ListAssets(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list assets: %w", err)
	}
	batch, err := j.prices.GetBatch(ctx, assets, from, to)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}

	table := batchTable(batch)
	result := j.gate.Validate(table, []string{"asset", "trade_date", "close"}, []string{"asset", "trade_date"})

	if err := j.runs.SaveGateResult(ctx, runID, "daily_prices", startedAt, result); err != nil {
		return fmt.Errorf("persist gate result: %w", err)
	}

	if j.cache != nil {
		// 조회 API가 DB 대신 집도록 당일 결과를 캐시 (실패는 무시)
		key := redis.GateResultKey("daily_prices", to.Format("2006-01-02"))
		_ = j.cache.Set(ctx, key, result, redis.TTLDaily)
	}

	if !result.Passed {
		log.WithFields(map[string]interface{}{
			"total_rows": result.TotalRows,
			"valid_rows": result.ValidRows,
			"issues":     result.Issues,
		}).Warn("Daily quality gate failed")

		if j.onFail != nil {
			j.onFail(result)
		}
		return nil // 게이트 실패는 데이터 문제지 작업 실패가 아니다
	}

	log.WithField("rows", result.TotalRows).Info("Daily quality gate passed")
	return nil
}

// batchTable 자산별 시계열을 게이트 입력 테이블로 평탄화
func batchTable(batch map[string]risk.PriceSeries) tabular.Table {
	table := tabular.New("asset", "trade_date", "close")
	for asset, series := range batch {
		for _, p := range series {
			table.Append(tabular.Row{
				"asset":      asset,
				"trade_date": p.Time.Format("2006-01-02"),
				"close":      p.Price,
			})
		}
	}
	return table
}
