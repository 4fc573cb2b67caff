package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	rulesFile string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riskval",
	Short: "riskval - 리스크 지표 & 데이터 품질 검증 엔진",
	Long: `riskval Unified CLI

가격 시계열에서 수익률/VaR/샤프/소르티노/최대낙폭/베타를 계산하고,
테이블 배치의 품질 게이트와 스타 스키마 정합성을 검증한다.

Usage:
  go run ./cmd/riskval [command]

Examples:
  go run ./cmd/riskval metrics --input prices.json
  go run ./cmd/riskval validate --input batch.json --rules rules.yaml
  go run ./cmd/riskval serve
  go run ./cmd/riskval scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "YAML rule set file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
