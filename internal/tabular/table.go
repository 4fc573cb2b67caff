package tabular

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// ErrMissingColumn 검사 대상 컬럼이 테이블에 없음
var ErrMissingColumn = errors.New("missing column")

// Row 단일 레코드. 컬럼명 → 셀 값.
type Row map[string]any

// Table 균일한 형태의 인메모리 테이블 배치
// ⭐ SSOT: 품질/스키마 검증기의 유일한 입력 형태.
// Columns가 컬럼 순서를 정의하고 Rows는 입력 순서를 유지한다.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New creates an empty table with the given column order.
func New(columns ...string) Table {
	return Table{Columns: columns, Rows: make([]Row, 0)}
}

// Append adds a row. 선언되지 않은 컬럼은 무시하지 않고 그대로 보관한다.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// HasColumn reports whether the column is declared.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RowCount returns the number of rows.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// =============================================================================
// Cell Helpers
// =============================================================================

// IsMissing 셀 결측 판정: nil, NaN, 빈 문자열, invalid null 타입
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case string:
		return strings.TrimSpace(x) == ""
	case null.Float:
		return !x.Valid
	case null.Int:
		return !x.Valid
	case null.String:
		return !x.Valid
	case null.Bool:
		return !x.Valid
	case null.Time:
		return !x.Valid
	default:
		return false
	}
}

// AsFloat 셀 값을 float64로 해석. 결측/비수치는 ok=false.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case float32:
		return AsFloat(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case null.Float:
		if !x.Valid {
			return 0, false
		}
		return x.Float64, true
	case null.Int:
		if !x.Valid {
			return 0, false
		}
		return float64(x.Int64), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsString 셀 값을 비교용 문자열로 정규화
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case null.String:
		if !x.Valid {
			return ""
		}
		return x.String
	case null.Float:
		if !x.Valid {
			return ""
		}
		return strconv.FormatFloat(x.Float64, 'g', -1, 64)
	case null.Int:
		if !x.Valid {
			return ""
		}
		return strconv.FormatInt(x.Int64, 10)
	case null.Time:
		if !x.Valid {
			return ""
		}
		return x.Time.Format(time.RFC3339)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// KeyOf 키 컬럼 튜플의 정규화 문자열 (중복 판정용)
func KeyOf(row Row, keyColumns []string) string {
	parts := make([]string, len(keyColumns))
	for i, col := range keyColumns {
		parts[i] = AsString(row[col])
	}
	return strings.Join(parts, "\x1f")
}
