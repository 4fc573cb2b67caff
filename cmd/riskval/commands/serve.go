package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/riskval/internal/api"
	"github.com/wonny/riskval/internal/api/handlers"
	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/runner"
	"github.com/wonny/riskval/pkg/config"
	"github.com/wonny/riskval/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                - Health check
  GET  /metrics               - Prometheus scrape
  GET  /ws                    - 완료 배치 스트림
  POST /api/metrics           - 단일 시계열 지표 계산
  POST /api/metrics/batch     - 다종목 배치 계산
  POST /api/validate          - 품질 게이트
  POST /api/schema/validate   - 스타 스키마 검증

Example:
  go run ./cmd/riskval serve
  go run ./cmd/riskval serve --port 8089`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (기본: PORT env)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== riskval API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Build engine from config defaults
	opts := risk.DefaultOptions()
	opts.PeriodsPerYear = cfg.Engine.PeriodsPerYear
	opts.RiskFreeRate = cfg.Engine.RiskFreeRate
	opts.ConfidenceLevels = cfg.Engine.ConfidenceLevels
	engine := risk.NewEngine(opts)

	// 4. Collaborators
	hub := api.NewHub(log)
	registry := api.NewMetricsRegistry()
	run := runner.New(engine, log)

	thresholds := quality.Thresholds{
		MinCompleteness: cfg.Quality.MinCompleteness,
		MinUniqueness:   cfg.Quality.MinUniqueness,
	}

	// 5. Handlers
	metricsHandler := handlers.NewMetricsHandler(run, log, hub.Broadcast)
	validateHandler := handlers.NewValidateHandler(thresholds, log)
	schemaHandler := handlers.NewSchemaHandler(log)

	// 6. Router + server
	router := api.NewRouter(metricsHandler, validateHandler, schemaHandler, hub, registry, log)
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
