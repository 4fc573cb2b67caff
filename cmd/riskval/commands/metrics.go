package commands

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/rules"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "가격 시계열에서 리스크 지표 계산",
	Long: `로컬 JSON 파일의 가격 시계열에서 리스크/성과 지표를 계산합니다.

입력 형식 (JSON):
  [{"time": "2025-01-02T00:00:00Z", "price": 71200}, ...]

Example:
  go run ./cmd/riskval metrics --input prices.json
  go run ./cmd/riskval metrics --input prices.json --benchmark kospi.json --rules rules.yaml
  go run ./cmd/riskval metrics --input prices.json --json`,
	RunE: runMetrics,
}

var (
	metricsInput     string
	metricsBenchmark string
	metricsJSON      bool
)

func init() {
	rootCmd.AddCommand(metricsCmd)

	// Flags
	metricsCmd.Flags().StringVar(&metricsInput, "input", "", "price series JSON file (required)")
	metricsCmd.Flags().StringVar(&metricsBenchmark, "benchmark", "", "benchmark series JSON file")
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "emit raw JSON result")
	metricsCmd.MarkFlagRequired("input")
}

func loadSeries(path string) (risk.PriceSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var series risk.PriceSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return series, nil
}

func engineOptions() (risk.Options, error) {
	if rulesFile == "" {
		return risk.DefaultOptions(), nil
	}
	rs, _, err := rules.Load(rulesFile)
	if err != nil {
		return risk.Options{}, fmt.Errorf("load rules: %w", err)
	}
	return rs.EngineOptions(), nil
}

func runMetrics(cmd *cobra.Command, args []string) error {
	prices, err := loadSeries(metricsInput)
	if err != nil {
		return err
	}

	var benchmark risk.PriceSeries
	if metricsBenchmark != "" {
		benchmark, err = loadSeries(metricsBenchmark)
		if err != nil {
			return err
		}
	}

	opts, err := engineOptions()
	if err != nil {
		return err
	}

	engine := risk.NewEngine(opts)
	result, err := engine.Analyze(prices, benchmark)
	if err != nil {
		return err
	}

	if metricsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	PrintHeader("Risk Metrics")
	PrintKeyValue("Samples", fmt.Sprintf("%d", result.SampleCount), 18)
	PrintKeyValue("Total Return", FormatPct(result.TotalReturn), 18)
	PrintKeyValue("Annualized Return", FormatPct(result.AnnualizedReturn), 18)
	PrintKeyValue("Annualized Vol", FormatPct(result.AnnualizedVol), 18)
	PrintKeyValue("Sharpe", fmt.Sprintf("%.4f", result.Sharpe), 18)
	if math.IsInf(result.Sortino, 1) {
		PrintKeyValue("Sortino", "+Inf (no downside)", 18)
	} else {
		PrintKeyValue("Sortino", fmt.Sprintf("%.4f", result.Sortino), 18)
	}
	PrintKeyValue("Max Drawdown", FormatPct(result.Drawdown.MaxDrawdown), 18)
	PrintKeyValue("Peak", result.Drawdown.PeakAt.Format("2006-01-02"), 18)
	PrintKeyValue("Trough", result.Drawdown.TroughAt.Format("2006-01-02"), 18)
	if result.Beta != nil {
		PrintKeyValue("Beta", fmt.Sprintf("%.4f", *result.Beta), 18)
	}

	PrintSeparator()
	for _, v := range result.VaR {
		PrintKeyValue(
			fmt.Sprintf("VaR %.0f%%", v.Confidence*100),
			fmt.Sprintf("parametric %s / historical %s", FormatPct(v.Parametric), FormatPct(v.Historical)),
			18)
	}

	return nil
}
