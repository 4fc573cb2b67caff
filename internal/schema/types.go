package schema

// =============================================================================
// Star-Schema Validation Types
// =============================================================================

// Conventions 차원 모델 명명 규약
type Conventions struct {
	KeySuffix        string `yaml:"key_suffix" json:"key_suffix"`               // 기본: _key
	DimensionPrefix  string `yaml:"dimension_prefix" json:"dimension_prefix"`   // 기본: dim_
	FactPrefix       string `yaml:"fact_prefix" json:"fact_prefix"`             // 기본: fact_
	OrphanSampleSize int    `yaml:"orphan_sample_size" json:"orphan_sample_size"` // 기본: 10
}

// DefaultConventions 기본 명명 규약
func DefaultConventions() Conventions {
	return Conventions{
		KeySuffix:        "_key",
		DimensionPrefix:  "dim_",
		FactPrefix:       "fact_",
		OrphanSampleSize: 10,
	}
}

// ValidationResult 테이블 하나의 스키마 검증 결과
// Errors는 차단 사유, Warnings는 비차단 권고.
// 명명 위생 문제는 절대 정합성 검사를 차단하지 않는다 (경고로만).
type ValidationResult struct {
	Table          string   `json:"table"`
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	SurrogateKeys  []string `json:"surrogate_keys,omitempty"`
	MeasureColumns []string `json:"measure_columns,omitempty"`
	OrphanCount    int      `json:"orphan_count"`
	OrphanSample   []string `json:"orphan_sample,omitempty"` // 상한 있는 표본, 전체 목록 금지
}
