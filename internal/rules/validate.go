package rules

import (
	"fmt"

	"github.com/wonny/riskval/internal/risk"
)

// ValidationError 검증 실패 (규칙 파일 거부)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints of a rule set.
// 실패 시 error 반환 — 부분적으로 유효한 규칙 파일은 쓰지 않는다.
func Validate(rs *RuleSet) error {
	// === Meta ===
	if rs.Meta.RuleSetID == "" {
		return ValidationError{"meta.rule_set_id", "required"}
	}

	// === Engine ===
	if rs.Engine.PeriodsPerYear < 0 {
		return ValidationError{"engine.periods_per_year", "must be >= 0"}
	}
	for i, c := range rs.Engine.ConfidenceLevels {
		if c <= 0 || c >= 1 {
			return ValidationError{
				fmt.Sprintf("engine.confidence_levels[%d]", i),
				fmt.Sprintf("must be in (0, 1), got %v", c),
			}
		}
	}
	if rs.Engine.VaRHorizon < 0 {
		return ValidationError{"engine.var_horizon", "must be >= 0"}
	}
	switch risk.ReturnMethod(rs.Engine.ReturnMethod) {
	case "", risk.ReturnSimple, risk.ReturnLog:
	default:
		return ValidationError{"engine.return_method", "must be 'simple' or 'log'"}
	}

	// === Quality ===
	if t := rs.Quality.Thresholds.MinCompleteness; t < 0 || t > 1 {
		return ValidationError{"quality.thresholds.min_completeness", "must be in [0, 1]"}
	}
	if t := rs.Quality.Thresholds.MinUniqueness; t < 0 || t > 1 {
		return ValidationError{"quality.thresholds.min_uniqueness", "must be in [0, 1]"}
	}
	for i, r := range rs.Quality.Ranges {
		if r.Column == "" {
			return ValidationError{fmt.Sprintf("quality.ranges[%d].column", i), "required"}
		}
		if r.Min > r.Max {
			return ValidationError{
				fmt.Sprintf("quality.ranges[%d]", i),
				fmt.Sprintf("min %v must be <= max %v", r.Min, r.Max),
			}
		}
	}
	for i, a := range rs.Quality.AllowedValues {
		if a.Column == "" {
			return ValidationError{fmt.Sprintf("quality.allowed_values[%d].column", i), "required"}
		}
		if len(a.Values) == 0 {
			return ValidationError{fmt.Sprintf("quality.allowed_values[%d].values", i), "must not be empty"}
		}
	}

	// === Schema ===
	// 링크가 참조하는 팩트/차원은 선언되어 있어야 한다
	dims := make(map[string]struct{}, len(rs.Schema.Dimensions))
	for i, d := range rs.Schema.Dimensions {
		if d.Name == "" {
			return ValidationError{fmt.Sprintf("schema.dimensions[%d].name", i), "required"}
		}
		dims[d.Name] = struct{}{}
	}
	facts := make(map[string]struct{}, len(rs.Schema.Facts))
	for i, f := range rs.Schema.Facts {
		if f.Name == "" {
			return ValidationError{fmt.Sprintf("schema.facts[%d].name", i), "required"}
		}
		facts[f.Name] = struct{}{}
	}
	for i, l := range rs.Schema.Links {
		if _, ok := facts[l.Fact]; !ok {
			return ValidationError{
				fmt.Sprintf("schema.links[%d].fact", i),
				fmt.Sprintf("%q is not a declared fact", l.Fact),
			}
		}
		if _, ok := dims[l.Dimension]; !ok {
			return ValidationError{
				fmt.Sprintf("schema.links[%d].dimension", i),
				fmt.Sprintf("%q is not a declared dimension", l.Dimension),
			}
		}
		if l.FactKey == "" || l.DimensionKey == "" {
			return ValidationError{fmt.Sprintf("schema.links[%d]", i), "fact_key and dimension_key are required"}
		}
	}

	return nil
}
