package rules

import (
	"github.com/wonny/riskval/internal/quality"
	"github.com/wonny/riskval/internal/risk"
	"github.com/wonny/riskval/internal/schema"
)

// =============================================================================
// Rule Set - 검증/계산 규칙의 선언적 정의 (YAML)
// =============================================================================

// RuleSet 파일 하나가 배치 하나의 검증 규칙 전체를 기술한다
type RuleSet struct {
	Meta    Meta        `yaml:"meta" json:"meta"`
	Engine  EngineRules `yaml:"engine" json:"engine"`
	Quality QualityRule `yaml:"quality" json:"quality"`
	Schema  SchemaRules `yaml:"schema" json:"schema"`
}

// Meta 메타 정보
type Meta struct {
	RuleSetID string `yaml:"rule_set_id" json:"rule_set_id"`
	Version   string `yaml:"version" json:"version"`
}

// EngineRules 리스크 엔진 파라미터
type EngineRules struct {
	PeriodsPerYear   int       `yaml:"periods_per_year" json:"periods_per_year"`     // 기본: 252
	RiskFreeRate     float64   `yaml:"risk_free_rate" json:"risk_free_rate"`         // 연율
	ConfidenceLevels []float64 `yaml:"confidence_levels" json:"confidence_levels"`   // (0,1) 구간
	VaRHorizon       float64   `yaml:"var_horizon" json:"var_horizon"`               // 기간 수
	ReturnMethod     string    `yaml:"return_method" json:"return_method"`           // simple | log
}

// QualityRule 품질 게이트 규칙
type QualityRule struct {
	Thresholds      quality.Thresholds  `yaml:"thresholds" json:"thresholds"`
	RequiredColumns []string            `yaml:"required_columns" json:"required_columns"`
	KeyColumns      []string            `yaml:"key_columns" json:"key_columns"`
	Ranges          []RangeRule         `yaml:"ranges" json:"ranges"`
	AllowedValues   []AllowedValuesRule `yaml:"allowed_values" json:"allowed_values"`
}

// RangeRule 수치 컬럼 범위 규칙
type RangeRule struct {
	Column string  `yaml:"column" json:"column"`
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
}

// AllowedValuesRule 허용값 규칙
type AllowedValuesRule struct {
	Column string   `yaml:"column" json:"column"`
	Values []string `yaml:"values" json:"values"`
}

// SchemaRules 스타 스키마 선언
type SchemaRules struct {
	Conventions schema.Conventions `yaml:"conventions" json:"conventions"`
	Dimensions  []DimensionRule    `yaml:"dimensions" json:"dimensions"`
	Facts       []FactRule         `yaml:"facts" json:"facts"`
	Links       []LinkRule         `yaml:"links" json:"links"`
}

// DimensionRule 차원 테이블 선언
type DimensionRule struct {
	Name string `yaml:"name" json:"name"`
}

// FactRule 팩트 테이블 선언과 외래 키 목록
type FactRule struct {
	Name          string   `yaml:"name" json:"name"`
	DimensionKeys []string `yaml:"dimension_keys" json:"dimension_keys"`
}

// LinkRule 팩트→차원 참조 정합성 선언
type LinkRule struct {
	Fact         string `yaml:"fact" json:"fact"`
	FactKey      string `yaml:"fact_key" json:"fact_key"`
	Dimension    string `yaml:"dimension" json:"dimension"`
	DimensionKey string `yaml:"dimension_key" json:"dimension_key"`
}

// EngineOptions 엔진 파라미터를 risk.Options로 변환 (0값은 기본값 유지)
func (r RuleSet) EngineOptions() risk.Options {
	opts := risk.DefaultOptions()
	if r.Engine.PeriodsPerYear > 0 {
		opts.PeriodsPerYear = r.Engine.PeriodsPerYear
	}
	opts.RiskFreeRate = r.Engine.RiskFreeRate
	if len(r.Engine.ConfidenceLevels) > 0 {
		opts.ConfidenceLevels = r.Engine.ConfidenceLevels
	}
	if r.Engine.VaRHorizon > 0 {
		opts.VaRHorizon = r.Engine.VaRHorizon
	}
	if r.Engine.ReturnMethod != "" {
		opts.ReturnMethod = risk.ReturnMethod(r.Engine.ReturnMethod)
	}
	return opts
}
