package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/rules"
	"github.com/wonny/riskval/internal/tabular"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "테이블 배치 품질 게이트 실행",
	Long: `로컬 테이블 파일(JSON 또는 HTML)에 품질 게이트를 실행합니다.

입력 형식:
  .json - {"columns": [...], "rows": [{...}, ...]}
  .html - 첫 번째 <table> 요소 (첫 행을 헤더로 해석)

Example:
  go run ./cmd/riskval validate --input batch.json --rules rules.yaml
  go run ./cmd/riskval validate --input report.html --rules rules.yaml --quarantine`,
	RunE: runValidate,
}

var (
	validateInput      string
	validateQuarantine bool
	validateSelector   string
)

func init() {
	rootCmd.AddCommand(validateCmd)

	// Flags
	validateCmd.Flags().StringVar(&validateInput, "input", "", "table file, .json or .html (required)")
	validateCmd.Flags().BoolVar(&validateQuarantine, "quarantine", false, "print quarantine split")
	validateCmd.Flags().StringVar(&validateSelector, "selector", "table", "CSS selector for HTML input")
	validateCmd.MarkFlagRequired("input")
}

// loadTable 입력 확장자에 따라 테이블 로드
func loadTable(path string) (tabular.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return tabular.Table{}, err
		}
		defer f.Close()
		return tabular.FromHTMLTable(f, validateSelector)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return tabular.Table{}, err
		}
		var table tabular.Table
		if err := json.Unmarshal(data, &table); err != nil {
			return tabular.Table{}, fmt.Errorf("parse %s: %w", path, err)
		}
		return table, nil
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	table, err := loadTable(validateInput)
	if err != nil {
		return err
	}

	rule := rules.QualityRule{Thresholds: quality.DefaultThresholds()}
	if rulesFile != "" {
		rs, _, err := rules.Load(rulesFile)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		rule = rs.Quality
	}

	gate := quality.NewGate(rule.Thresholds)
	result := gate.Validate(table, rule.RequiredColumns, rule.KeyColumns)

	PrintHeader("Quality Gate")
	PrintKeyValue("Rows", fmt.Sprintf("%d (%d valid)", result.TotalRows, result.ValidRows), 14)
	PrintKeyValue("Completeness", FormatPct(result.Completeness), 14)
	PrintKeyValue("Uniqueness", FormatPct(result.Uniqueness), 14)

	// 규칙에 선언된 범위/허용값 검사
	for _, rr := range rule.Ranges {
		r, err := quality.CheckRange(table, rr.Column, rr.Min, rr.Max)
		if err != nil {
			PrintWarning(fmt.Sprintf("range check %q skipped: %v", rr.Column, err))
			continue
		}
		PrintKeyValue("Range "+rr.Column,
			fmt.Sprintf("%d/%d out of [%g, %g]", r.OutOfRange, r.Checked, rr.Min, rr.Max), 14)
	}
	for _, ar := range rule.AllowedValues {
		r, err := quality.CheckAllowedValues(table, ar.Column, ar.Values)
		if err != nil {
			PrintWarning(fmt.Sprintf("allowed-values check %q skipped: %v", ar.Column, err))
			continue
		}
		PrintKeyValue("Values "+ar.Column,
			fmt.Sprintf("%d/%d invalid", r.InvalidCount, r.Checked), 14)
	}

	PrintSeparator()
	if result.Passed {
		PrintSuccess("Gate passed")
	} else {
		PrintError("Gate failed")
		PrintList(result.Issues)
	}

	if validateQuarantine {
		q := quality.Quarantine(table, rule.RequiredColumns, rule.KeyColumns)
		PrintSeparator()
		PrintInfo(fmt.Sprintf("Quarantine: %d valid, %d quarantined",
			q.Valid.RowCount(), q.Quarantined.RowCount()))
		PrintList(q.Reasons)
	}

	if !result.Passed {
		return fmt.Errorf("quality gate failed with %d issue(s)", len(result.Issues))
	}
	return nil
}
