package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// =============================================================================
// Declared Column Schema
// =============================================================================
// 적재 시점의 암묵적 타입 추론 대신 명시적 스키마 선언을 강제한다.
// 파싱 실패는 CellError로 구조화되어 반환되며 조용히 NaN으로 대체되지 않는다.

// ColumnType 컬럼의 의미 타입
type ColumnType string

const (
	TypeFloat  ColumnType = "float"
	TypeInt    ColumnType = "int"
	TypeString ColumnType = "string"
	TypeBool   ColumnType = "bool"
	TypeTime   ColumnType = "time"
)

// ColumnSpec 단일 컬럼 선언
type ColumnSpec struct {
	Name   string     `yaml:"name" json:"name"`
	Type   ColumnType `yaml:"type" json:"type"`
	Layout string     `yaml:"layout,omitempty" json:"layout,omitempty"` // time 전용, 기본 2006-01-02
}

// Schema 테이블 전체의 컬럼 선언 (순서 유지)
type Schema struct {
	Columns []ColumnSpec `yaml:"columns" json:"columns"`
}

// CellError 셀 하나의 파싱 실패
type CellError struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e CellError) Error() string {
	return fmt.Sprintf("row %d column %q: %s (value %q)", e.Row, e.Column, e.Reason, e.Value)
}

// ApplySchema parses every declared column into its typed representation.
// 결측 셀은 invalid null 값으로 남고 에러가 아니다. 파싱 실패만 CellError.
// 선언에 없는 컬럼은 건드리지 않는다.
func ApplySchema(t Table, s Schema) (Table, []CellError) {
	out := Table{Columns: t.Columns, Rows: make([]Row, 0, len(t.Rows))}
	var cellErrors []CellError

	for i, row := range t.Rows {
		parsed := make(Row, len(row))
		for k, v := range row {
			parsed[k] = v
		}

		for _, spec := range s.Columns {
			raw, exists := row[spec.Name]
			if !exists || IsMissing(raw) {
				parsed[spec.Name] = missingValue(spec.Type)
				continue
			}

			value, err := parseCell(raw, spec)
			if err != nil {
				cellErrors = append(cellErrors, CellError{
					Row:    i,
					Column: spec.Name,
					Value:  AsString(raw),
					Reason: err.Error(),
				})
				parsed[spec.Name] = missingValue(spec.Type)
				continue
			}
			parsed[spec.Name] = value
		}

		out.Rows = append(out.Rows, parsed)
	}

	return out, cellErrors
}

// missingValue 타입별 invalid null 표현
func missingValue(t ColumnType) any {
	switch t {
	case TypeFloat:
		return null.Float{}
	case TypeInt:
		return null.Int{}
	case TypeBool:
		return null.Bool{}
	case TypeTime:
		return null.Time{}
	default:
		return null.String{}
	}
}

// parseCell 원시 셀을 선언 타입으로 파싱
func parseCell(raw any, spec ColumnSpec) (any, error) {
	text := strings.TrimSpace(AsString(raw))

	switch spec.Type {
	case TypeFloat:
		if f, ok := AsFloat(raw); ok {
			return null.NewFloat(f, true), nil
		}
		return nil, fmt.Errorf("not a float")
	case TypeInt:
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return null.NewInt(n, true), nil
		}
		return nil, fmt.Errorf("not an integer")
	case TypeBool:
		if b, err := strconv.ParseBool(text); err == nil {
			return null.NewBool(b, true), nil
		}
		return nil, fmt.Errorf("not a bool")
	case TypeTime:
		layout := spec.Layout
		if layout == "" {
			layout = "2006-01-02"
		}
		if ts, ok := raw.(time.Time); ok {
			return null.NewTime(ts, true), nil
		}
		if ts, err := time.Parse(layout, text); err == nil {
			return null.NewTime(ts, true), nil
		}
		return nil, fmt.Errorf("not a time in layout %q", layout)
	case TypeString:
		return null.NewString(text, true), nil
	default:
		return nil, fmt.Errorf("unknown column type %q", spec.Type)
	}
}
