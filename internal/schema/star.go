package schema

import (
	"fmt"
	"strings"

	"github.com/wonny/riskval/internal/tabular"
)

// =============================================================================
// Star-Schema Compliance Validator - 순수 검증기
// =============================================================================
// 차원 테이블/팩트 테이블이 집계 레이어에서 신뢰되기 전에
// 모델링 규약과 참조 정합성을 검사한다. 데이터 결함은 에러를 던지지 않고
// 항상 구조화된 결과로 설명한다.

// Validator 스타 스키마 검증기
type Validator struct {
	conventions Conventions
}

// NewValidator creates a validator with the given naming conventions.
func NewValidator(conventions Conventions) *Validator {
	defaults := DefaultConventions()
	if conventions.KeySuffix == "" {
		conventions.KeySuffix = defaults.KeySuffix
	}
	if conventions.DimensionPrefix == "" {
		conventions.DimensionPrefix = defaults.DimensionPrefix
	}
	if conventions.FactPrefix == "" {
		conventions.FactPrefix = defaults.FactPrefix
	}
	if conventions.OrphanSampleSize <= 0 {
		conventions.OrphanSampleSize = defaults.OrphanSampleSize
	}
	return &Validator{conventions: conventions}
}

// =============================================================================
// Dimension Table Check
// =============================================================================

// ValidateDimension 차원 테이블 규약 검사
// 대리 키 컬럼(접미사 규약)은 필수이며 중복 키는 차단 에러.
// 테이블명 접두사 불일치는 경고일 뿐 정합성 검사를 막지 않는다.
func (v *Validator) ValidateDimension(t tabular.Table, tableName string) ValidationResult {
	result := ValidationResult{
		Table:    tableName,
		Valid:    true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	// 명명 위생: 경고로만
	if !strings.HasPrefix(tableName, v.conventions.DimensionPrefix) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"table name %q does not start with %q", tableName, v.conventions.DimensionPrefix))
	}

	// 대리 키 탐지
	for _, col := range t.Columns {
		if strings.HasSuffix(col, v.conventions.KeySuffix) {
			result.SurrogateKeys = append(result.SurrogateKeys, col)
		}
	}

	if len(result.SurrogateKeys) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"no surrogate key column found (expected suffix %q)", v.conventions.KeySuffix))
		return result
	}

	// 대리 키 유일성: 중복은 차단 에러
	for _, keyCol := range result.SurrogateKeys {
		duplicates := countDuplicates(t, keyCol)
		if duplicates > 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf(
				"surrogate key %q has %d duplicate value(s)", keyCol, duplicates))
		}
	}

	return result
}

// countDuplicates 단일 컬럼의 중복 값 행 수 (두 번째 이후 등장 집계)
func countDuplicates(t tabular.Table, column string) int {
	seen := make(map[string]struct{}, len(t.Rows))
	duplicates := 0
	for _, row := range t.Rows {
		key := tabular.AsString(row[column])
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

// =============================================================================
// Fact Table Check
// =============================================================================

// ValidateFact 팩트 테이블 규약 검사
// 선언된 차원 외래 키 컬럼 누락은 차단 에러.
// 키가 아닌 수치 측정값 컬럼이 없으면 경고 (키 전용 브리지 테이블 허용).
func (v *Validator) ValidateFact(t tabular.Table, tableName string, dimensionKeys []string) ValidationResult {
	result := ValidationResult{
		Table:    tableName,
		Valid:    true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	if !strings.HasPrefix(tableName, v.conventions.FactPrefix) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"table name %q does not start with %q", tableName, v.conventions.FactPrefix))
	}

	// 선언된 외래 키는 전부 존재해야 함
	for _, key := range dimensionKeys {
		if !t.HasColumn(key) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf(
				"declared dimension key %q is missing", key))
		}
	}

	// 측정값 탐지: 키 접미사가 아니고 선언 키도 아닌 수치 컬럼
	declared := make(map[string]struct{}, len(dimensionKeys))
	for _, key := range dimensionKeys {
		declared[key] = struct{}{}
	}

	for _, col := range t.Columns {
		if strings.HasSuffix(col, v.conventions.KeySuffix) {
			continue
		}
		if _, isKey := declared[col]; isKey {
			continue
		}
		if isNumericColumn(t, col) {
			result.MeasureColumns = append(result.MeasureColumns, col)
		}
	}

	if len(result.MeasureColumns) == 0 {
		result.Warnings = append(result.Warnings,
			"no numeric measure column found (key-only bridge table?)")
	}

	return result
}

// isNumericColumn 비결측 셀이 하나 이상 있고 전부 수치로 해석되는 컬럼
func isNumericColumn(t tabular.Table, column string) bool {
	numeric := 0
	for _, row := range t.Rows {
		cell := row[column]
		if tabular.IsMissing(cell) {
			continue
		}
		if _, ok := tabular.AsFloat(cell); !ok {
			return false
		}
		numeric++
	}
	return numeric > 0
}

// =============================================================================
// Referential Integrity Check
// =============================================================================

// CheckReferentialIntegrity 팩트 외래 키가 차원 키 집합의 부분집합인지 검사
// 고아(orphan) 값은 개수와 상한 있는 표본만 보고한다.
// 에러 페이로드가 데이터 양과 무관하게 상수 크기를 유지하기 위함.
// 키 컬럼 자체가 없으면 단독 연산이므로 즉시 에러.
func (v *Validator) CheckReferentialIntegrity(fact tabular.Table, factName, factKey string, dim tabular.Table, dimName, dimKey string) (ValidationResult, error) {
	if !fact.HasColumn(factKey) {
		return ValidationResult{}, fmt.Errorf("%w: %q in fact table %q", tabular.ErrMissingColumn, factKey, factName)
	}
	if !dim.HasColumn(dimKey) {
		return ValidationResult{}, fmt.Errorf("%w: %q in dimension table %q", tabular.ErrMissingColumn, dimKey, dimName)
	}

	result := ValidationResult{
		Table:    factName,
		Valid:    true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	dimKeys := make(map[string]struct{}, len(dim.Rows))
	for _, row := range dim.Rows {
		if tabular.IsMissing(row[dimKey]) {
			continue
		}
		dimKeys[tabular.AsString(row[dimKey])] = struct{}{}
	}

	sampled := make(map[string]struct{})
	for _, row := range fact.Rows {
		if tabular.IsMissing(row[factKey]) {
			continue
		}
		value := tabular.AsString(row[factKey])
		if _, ok := dimKeys[value]; ok {
			continue
		}

		result.OrphanCount++
		if _, already := sampled[value]; !already && len(result.OrphanSample) < v.conventions.OrphanSampleSize {
			result.OrphanSample = append(result.OrphanSample, value)
			sampled[value] = struct{}{}
		}
	}

	if result.OrphanCount > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"%d orphaned value(s) in %s.%s not present in %s.%s",
			result.OrphanCount, factName, factKey, dimName, dimKey))
	}

	return result, nil
}
