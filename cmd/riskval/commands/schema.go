package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/riskval/internal/rules"
	"github.com/wonny/riskval/internal/schema"
	"github.com/wonny/riskval/internal/tabular"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "스타 스키마 정합성 검증",
	Long: `규칙 파일에 선언된 차원/팩트 테이블의 스키마 규약과
참조 정합성을 검증합니다.

테이블 파일은 --dir 아래에서 <선언된 이름>.json으로 찾습니다.

Example:
  go run ./cmd/riskval schema --rules rules.yaml --dir ./tables`,
	RunE: runSchema,
}

var schemaDir string

func init() {
	rootCmd.AddCommand(schemaCmd)

	// Flags
	schemaCmd.Flags().StringVar(&schemaDir, "dir", ".", "directory containing <table>.json files")
}

func loadNamedTable(name string) (tabular.Table, error) {
	data, err := os.ReadFile(filepath.Join(schemaDir, name+".json"))
	if err != nil {
		return tabular.Table{}, err
	}
	var table tabular.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return tabular.Table{}, fmt.Errorf("parse table %s: %w", name, err)
	}
	return table, nil
}

func printResult(result schema.ValidationResult) {
	if result.Valid {
		PrintSuccess(result.Table)
	} else {
		PrintError(result.Table)
		PrintList(result.Errors)
	}
	for _, w := range result.Warnings {
		PrintWarning(w)
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	if rulesFile == "" {
		return fmt.Errorf("--rules is required for schema validation")
	}
	rs, _, err := rules.Load(rulesFile)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	validator := schema.NewValidator(rs.Schema.Conventions)
	tables := make(map[string]tabular.Table)
	allValid := true

	PrintHeader("Star-Schema Validation")

	// 1. 차원 테이블
	for _, dim := range rs.Schema.Dimensions {
		table, err := loadNamedTable(dim.Name)
		if err != nil {
			return err
		}
		tables[dim.Name] = table

		result := validator.ValidateDimension(table, dim.Name)
		allValid = allValid && result.Valid
		printResult(result)
	}

	// 2. 팩트 테이블
	for _, fact := range rs.Schema.Facts {
		table, err := loadNamedTable(fact.Name)
		if err != nil {
			return err
		}
		tables[fact.Name] = table

		result := validator.ValidateFact(table, fact.Name, fact.DimensionKeys)
		allValid = allValid && result.Valid
		printResult(result)
	}

	// 3. 참조 정합성
	PrintSeparator()
	for _, link := range rs.Schema.Links {
		result, err := validator.CheckReferentialIntegrity(
			tables[link.Fact], link.Fact, link.FactKey,
			tables[link.Dimension], link.Dimension, link.DimensionKey)
		if err != nil {
			return err
		}
		allValid = allValid && result.Valid

		if result.Valid {
			PrintSuccess(fmt.Sprintf("%s.%s → %s.%s", link.Fact, link.FactKey, link.Dimension, link.DimensionKey))
		} else {
			PrintError(fmt.Sprintf("%s.%s → %s.%s: %d orphan(s), sample %v",
				link.Fact, link.FactKey, link.Dimension, link.DimensionKey,
				result.OrphanCount, result.OrphanSample))
		}
	}

	if !allValid {
		return fmt.Errorf("schema validation failed")
	}
	PrintSuccess("Schema valid")
	return nil
}
