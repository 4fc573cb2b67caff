package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/ratecache"
	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/scheduler"
	"github.com/wonny/riskval/internal/scheduler/jobs"
	"github.com/wonny/riskval/internal/store"
	"github.com/wonny/riskval/pkg/config"
	"github.com/wonny/riskval/pkg/database"
	"github.com/wonny/riskval/pkg/logger"
	"github.com/wonny/riskval/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  run     - 특정 작업 즉시 실행

등록되는 작업:
- daily_quality_gate: 평일 17:30 (일일 배치 품질 게이트)
- nightly_metrics_batch: 평일 18:00 (전 종목 지표 재계산)

Example:
  go run ./cmd/riskval scheduler start
  go run ./cmd/riskval scheduler run daily_quality_gate`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runSchedulerStart,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

var schedulerBenchmark string

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().StringVar(&schedulerBenchmark, "benchmark", "", "benchmark asset code for beta")
}

// initScheduler wires the scheduler with its jobs
func initScheduler() (*scheduler.Scheduler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	cleanup := func() {
		rdb.Close()
		db.Close()
	}

	prices := store.NewPriceRepository(db.Pool)
	runs := store.NewRunRepository(db.Pool)
	cache := redis.NewCache(rdb, "riskval")

	opts := risk.DefaultOptions()
	opts.PeriodsPerYear = cfg.Engine.PeriodsPerYear
	opts.RiskFreeRate = cfg.Engine.RiskFreeRate
	opts.ConfidenceLevels = cfg.Engine.ConfidenceLevels

	// 무위험 이자율: 설정값을 소스로, 공유 redis 티어를 앞단에
	rates := ratecache.New(
		ratecache.Fixed(cfg.Engine.RiskFreeRate),
		cfg.Engine.RateCacheTTL,
		ratecache.WithRedisTier(cache),
	)

	gate := quality.NewGate(quality.Thresholds{
		MinCompleteness: cfg.Quality.MinCompleteness,
		MinUniqueness:   cfg.Quality.MinUniqueness,
	})

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewQualityGateJob(prices, runs, gate, cache, log, nil)); err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewMetricsBatchJob(prices, runs, opts, rates, schedulerBenchmark, log, nil)); err != nil {
		cleanup()
		return nil, nil, err
	}

	return sched, cleanup, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== riskval Scheduler ===")

	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	jobName := args[0]
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Job %s triggered", jobName))

	// 비동기 실행이 끝날 때까지 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	return nil
}
