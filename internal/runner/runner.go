package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/pkg/logger"
)

// =============================================================================
// Batch Runner - 다종목 리스크 지표 병렬 계산
// =============================================================================
// 종목별 계산은 서로 독립이라 워커 풀로 펼친다.
// 한 종목의 데이터 결함이 배치 전체를 중단시키지 않는다 —
// 종목별 에러는 결과에 담아 호출자에게 돌려준다.
// 배치를 중단시키는 것은 컨텍스트 취소뿐이다.

const defaultWorkers = 8

// Runner 배치 실행기
type Runner struct {
	engine  *risk.Engine
	workers int
	log     *logger.Logger
}

// New creates a batch runner over the given engine.
func New(engine *risk.Engine, log *logger.Logger) *Runner {
	return &Runner{
		engine:  engine,
		workers: defaultWorkers,
		log:     log,
	}
}

// WithWorkers sets the fan-out width.
func (r *Runner) WithWorkers(n int) *Runner {
	if n > 0 {
		r.workers = n
	}
	return r
}

// AssetResult 종목 하나의 계산 결과 (실패 시 Err만 채워짐)
type AssetResult struct {
	Asset   string                  `json:"asset"`
	Metrics *risk.RiskMetricsResult `json:"metrics,omitempty"`
	Err     string                  `json:"error,omitempty"`
}

// BatchResult 배치 하나의 실행 결과
type BatchResult struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Assets    []AssetResult `json:"assets"` // 종목명 오름차순
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// Run computes risk metrics for every asset in the batch.
// benchmark는 nil 허용 — 없으면 베타를 계산하지 않는다.
func (r *Runner) Run(ctx context.Context, series map[string]risk.PriceSeries, benchmark risk.PriceSeries) (BatchResult, error) {
	result := BatchResult{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}

	log := r.log.WithField("run_id", result.RunID)
	log.Infof("batch started: %d assets", len(series))

	assets := make([]string, 0, len(series))
	for asset := range series {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	workers := r.workers
	if workers > len(assets) {
		workers = len(assets)
	}

	// 요청 컨텍스트에서 파생: 취소가 모든 워커에 전파된다
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan string)

	results := make(map[string]AssetResult, len(assets))
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for asset := range jobs {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				ar := AssetResult{Asset: asset}
				metrics, err := r.engine.Analyze(series[asset], benchmark)
				if err != nil {
					// 데이터 결함은 배치를 중단시키지 않는다
					ar.Err = err.Error()
				} else {
					ar.Metrics = metrics
				}

				mu.Lock()
				results[asset] = ar
				mu.Unlock()
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for _, asset := range assets {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case jobs <- asset:
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return BatchResult{}, fmt.Errorf("batch %s canceled: %w", result.RunID, err)
	}

	// 종목별 경고는 샘플링: 전 종목이 깨진 배치에서 로그가 범람하지 않게
	warnLog := log.Sampled(10)
	for _, asset := range assets {
		ar := results[asset]
		result.Assets = append(result.Assets, ar)
		if ar.Err == "" {
			result.Succeeded++
		} else {
			result.Failed++
			warnLog.WithField("asset", asset).Warnf("asset failed: %s", ar.Err)
		}
	}

	result.Duration = time.Since(result.StartedAt)
	log.Infof("batch finished: %d ok, %d failed in %s", result.Succeeded, result.Failed, result.Duration)

	return result, nil
}
