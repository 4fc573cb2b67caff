package quality

import "github.com/wonny/riskval/internal/tabular"

// =============================================================================
// Quality Gate Types
// =============================================================================

// Thresholds 품질 게이트 통과 기준
type Thresholds struct {
	MinCompleteness float64 `yaml:"min_completeness" json:"min_completeness"` // 기본: 0.95
	MinUniqueness   float64 `yaml:"min_uniqueness" json:"min_uniqueness"`     // 기본: 0.99
}

// DefaultThresholds 기본 통과 기준
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinCompleteness: 0.95,
		MinUniqueness:   0.99,
	}
}

// ColumnCompleteness 컬럼 하나의 결측 현황
type ColumnCompleteness struct {
	Column       string  `json:"column"`
	MissingCount int     `json:"missing_count"`
	Completeness float64 `json:"completeness"` // 비결측 비율
}

// CompletenessResult 완전성 검사 결과
// Score는 검사한 컬럼들의 단순 평균 (행 가중 아님).
type CompletenessResult struct {
	Columns []ColumnCompleteness `json:"columns"`
	Score   float64              `json:"score"`
}

// UniquenessResult 유일성 검사 결과
// DuplicateRows는 앞서 본 키 튜플을 반복하는 모든 행의 수.
// 같은 튜플의 두 번째 이후 등장이 전부 중복으로 집계된다.
type UniquenessResult struct {
	KeyColumns    []string `json:"key_columns"`
	TotalRows     int      `json:"total_rows"`
	DuplicateRows int      `json:"duplicate_rows"`
	Score         float64  `json:"score"` // 1 - duplicates/total
}

// RangeResult 범위 검사 결과 (설정 경계와 관측 경계를 함께 보고)
type RangeResult struct {
	Column      string  `json:"column"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	ObservedMin float64 `json:"observed_min"`
	ObservedMax float64 `json:"observed_max"`
	OutOfRange  int     `json:"out_of_range"`
	Checked     int     `json:"checked"` // 결측 제외 검사 대상 수
}

// AllowedValuesResult 허용값 검사 결과
type AllowedValuesResult struct {
	Column       string   `json:"column"`
	InvalidCount int      `json:"invalid_count"`
	Checked      int      `json:"checked"`
	Sample       []string `json:"sample,omitempty"` // 허용 외 값 표본 (최대 10개)
}

// GateResult 품질 게이트 종합 결과
// ⭐ SSOT: 게이트는 결함을 설명하기 위해 존재한다.
// 데이터 품질 문제로는 절대 에러를 던지지 않고 항상 구조화된 결과를 반환한다.
type GateResult struct {
	TotalRows    int      `json:"total_rows"`
	ValidRows    int      `json:"valid_rows"`
	Completeness float64  `json:"completeness"`
	Uniqueness   float64  `json:"uniqueness"`
	Passed       bool     `json:"passed"`
	Issues       []string `json:"issues"` // 실패 검사당 한 줄, 검사 실행 순서 유지
}

// QuarantineResult 격리 분리 결과
// 실패 행도 버리지 않고 두 테이블 모두 호출자에게 돌려준다.
type QuarantineResult struct {
	Valid       tabular.Table `json:"valid"`
	Quarantined tabular.Table `json:"quarantined"`
	Reasons     []string      `json:"reasons"` // 격리 행과 같은 순서의 사유
}
