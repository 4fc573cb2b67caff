package quality

import (
	"fmt"

	"github.com/wonny/riskval/internal/tabular"
)

// =============================================================================
// Quality Gate - 순수 검증기
// =============================================================================

// Gate 테이블 배치 품질 게이트 (순수 계산기)
// 데이터 적재와 결과 영속화는 상위 레이어 책임.
type Gate struct {
	thresholds Thresholds
}

// NewGate creates a gate with the given thresholds.
func NewGate(thresholds Thresholds) *Gate {
	if thresholds.MinCompleteness <= 0 {
		thresholds.MinCompleteness = DefaultThresholds().MinCompleteness
	}
	if thresholds.MinUniqueness <= 0 {
		thresholds.MinUniqueness = DefaultThresholds().MinUniqueness
	}
	return &Gate{thresholds: thresholds}
}

// Thresholds returns the gate's effective thresholds.
func (g *Gate) Thresholds() Thresholds {
	return g.thresholds
}

// =============================================================================
// Individual Checks
// =============================================================================
// 단독 호출 시 없는 컬럼은 ErrMissingColumn으로 즉시 실패한다.
// 여러 검사를 묶는 Validate는 이를 이슈로 변환해 나머지 검사를 계속한다.

// CheckCompleteness 컬럼별 비결측 비율과 단순 평균 점수
func CheckCompleteness(t tabular.Table, columns []string) (CompletenessResult, error) {
	if len(columns) == 0 {
		return CompletenessResult{Score: 1.0}, nil
	}

	result := CompletenessResult{Columns: make([]ColumnCompleteness, 0, len(columns))}
	total := len(t.Rows)

	var sum float64
	for _, col := range columns {
		if !t.HasColumn(col) {
			return CompletenessResult{}, fmt.Errorf("%w: %q", tabular.ErrMissingColumn, col)
		}

		missing := 0
		for _, row := range t.Rows {
			if tabular.IsMissing(row[col]) {
				missing++
			}
		}

		completeness := 1.0
		if total > 0 {
			completeness = float64(total-missing) / float64(total)
		}

		result.Columns = append(result.Columns, ColumnCompleteness{
			Column:       col,
			MissingCount: missing,
			Completeness: completeness,
		})
		sum += completeness
	}

	// 컬럼 단순 평균 (행 가중 아님)
	result.Score = sum / float64(len(columns))
	return result, nil
}

// CheckUniqueness 키 튜플 기준 유일성 점수
// 앞서 본 튜플을 반복하는 모든 행이 중복으로 집계된다.
// 점수는 "유일하게 식별되지 않는 행"의 비율을 반영한다.
func CheckUniqueness(t tabular.Table, keyColumns []string) (UniquenessResult, error) {
	for _, col := range keyColumns {
		if !t.HasColumn(col) {
			return UniquenessResult{}, fmt.Errorf("%w: %q", tabular.ErrMissingColumn, col)
		}
	}

	result := UniquenessResult{
		KeyColumns: keyColumns,
		TotalRows:  len(t.Rows),
		Score:      1.0,
	}
	if len(t.Rows) == 0 || len(keyColumns) == 0 {
		return result, nil
	}

	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		key := tabular.KeyOf(row, keyColumns)
		if _, dup := seen[key]; dup {
			result.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
	}

	result.Score = 1.0 - float64(result.DuplicateRows)/float64(result.TotalRows)
	return result, nil
}

// CheckRange 수치 컬럼의 [min, max] 범위 위반 수와 관측 경계
// 결측/비수치 셀은 검사 대상에서 제외한다.
func CheckRange(t tabular.Table, column string, min, max float64) (RangeResult, error) {
	if !t.HasColumn(column) {
		return RangeResult{}, fmt.Errorf("%w: %q", tabular.ErrMissingColumn, column)
	}

	result := RangeResult{Column: column, Min: min, Max: max}
	first := true

	for _, row := range t.Rows {
		v, ok := tabular.AsFloat(row[column])
		if !ok {
			continue
		}
		result.Checked++

		if first {
			result.ObservedMin, result.ObservedMax = v, v
			first = false
		} else {
			if v < result.ObservedMin {
				result.ObservedMin = v
			}
			if v > result.ObservedMax {
				result.ObservedMax = v
			}
		}

		if v < min || v > max {
			result.OutOfRange++
		}
	}

	return result, nil
}

// CheckAllowedValues 허용 집합 밖의 값 개수 (표본 최대 10개)
func CheckAllowedValues(t tabular.Table, column string, allowed []string) (AllowedValuesResult, error) {
	if !t.HasColumn(column) {
		return AllowedValuesResult{}, fmt.Errorf("%w: %q", tabular.ErrMissingColumn, column)
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		allowedSet[v] = struct{}{}
	}

	result := AllowedValuesResult{Column: column}
	for _, row := range t.Rows {
		cell := row[column]
		if tabular.IsMissing(cell) {
			continue
		}
		result.Checked++

		value := tabular.AsString(cell)
		if _, ok := allowedSet[value]; !ok {
			result.InvalidCount++
			if len(result.Sample) < 10 {
				result.Sample = append(result.Sample, value)
			}
		}
	}

	return result, nil
}

// =============================================================================
// Gate Validation
// =============================================================================

// Validate 완전성과 유일성을 기준치에 대해 실행하고 종합 결과를 낸다.
// 데이터 품질 문제로는 에러를 반환하지 않는다 — 없는 컬럼조차
// 이슈 한 줄로 기록하고 나머지 검사를 계속한다.
func (g *Gate) Validate(t tabular.Table, requiredColumns, keyColumns []string) GateResult {
	result := GateResult{
		TotalRows: len(t.Rows),
		Passed:    true,
		Issues:    make([]string, 0),
	}

	// 1. 완전성
	completeness, err := CheckCompleteness(t, requiredColumns)
	if err != nil {
		result.Passed = false
		result.Issues = append(result.Issues, fmt.Sprintf("completeness check skipped: %v", err))
	} else {
		result.Completeness = completeness.Score
		if completeness.Score < g.thresholds.MinCompleteness {
			result.Passed = false
			result.Issues = append(result.Issues, fmt.Sprintf(
				"completeness %.4f below threshold %.4f", completeness.Score, g.thresholds.MinCompleteness))
		}
	}

	// 2. 유일성
	uniqueness, err := CheckUniqueness(t, keyColumns)
	if err != nil {
		result.Passed = false
		result.Issues = append(result.Issues, fmt.Sprintf("uniqueness check skipped: %v", err))
	} else {
		result.Uniqueness = uniqueness.Score
		if uniqueness.Score < g.thresholds.MinUniqueness {
			result.Passed = false
			result.Issues = append(result.Issues, fmt.Sprintf(
				"uniqueness %.4f below threshold %.4f (%d duplicate rows)",
				uniqueness.Score, g.thresholds.MinUniqueness, uniqueness.DuplicateRows))
		}
	}

	// 유효 행 수는 격리 기준과 동일한 행 단위 판정으로 센다
	quarantine := Quarantine(t, requiredColumns, keyColumns)
	result.ValidRows = quarantine.Valid.RowCount()

	return result
}

// Quarantine 행 단위 판정으로 배치를 유효/격리로 분리한다.
// 격리 사유: 필수 컬럼 결측 또는 키 튜플 중복 (두 번째 이후 등장).
// 두 테이블 모두 원본 행 순서를 유지한 채 호출자에게 반환된다.
func Quarantine(t tabular.Table, requiredColumns, keyColumns []string) QuarantineResult {
	result := QuarantineResult{
		Valid:       tabular.Table{Columns: t.Columns, Rows: make([]tabular.Row, 0, len(t.Rows))},
		Quarantined: tabular.Table{Columns: t.Columns, Rows: make([]tabular.Row, 0)},
		Reasons:     make([]string, 0),
	}

	seen := make(map[string]struct{}, len(t.Rows))
	for i, row := range t.Rows {
		var reason string

		for _, col := range requiredColumns {
			if !t.HasColumn(col) || tabular.IsMissing(row[col]) {
				reason = fmt.Sprintf("row %d: required column %q missing", i, col)
				break
			}
		}

		if reason == "" && len(keyColumns) > 0 {
			key := tabular.KeyOf(row, keyColumns)
			if _, dup := seen[key]; dup {
				reason = fmt.Sprintf("row %d: duplicate key tuple", i)
			} else {
				seen[key] = struct{}{}
			}
		}

		if reason == "" {
			result.Valid.Append(row)
		} else {
			result.Quarantined.Append(row)
			result.Reasons = append(result.Reasons, reason)
		}
	}

	return result
}
