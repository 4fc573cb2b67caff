package tabular

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{name: "nil", v: nil, want: true},
		{name: "NaN", v: math.NaN(), want: true},
		{name: "empty string", v: "", want: true},
		{name: "whitespace string", v: "  ", want: true},
		{name: "invalid null.Float", v: null.Float{}, want: true},
		{name: "valid null.Float", v: null.NewFloat(1.5, true), want: false},
		{name: "zero float", v: 0.0, want: false},
		{name: "text", v: "abc", want: false},
		{name: "int", v: 42, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.v))
		})
	}
}

func TestAsFloat(t *testing.T) {
	f, ok := AsFloat("3.14")
	assert.True(t, ok)
	assert.InDelta(t, 3.14, f, 1e-12)

	f, ok = AsFloat(null.NewFloat(2.5, true))
	assert.True(t, ok)
	assert.InDelta(t, 2.5, f, 1e-12)

	_, ok = AsFloat("not-a-number")
	assert.False(t, ok)

	_, ok = AsFloat(null.Float{})
	assert.False(t, ok)

	_, ok = AsFloat(math.NaN())
	assert.False(t, ok)
}

func TestKeyOf(t *testing.T) {
	row := Row{"code": "005930", "date": "2025-01-02", "price": 100.0}

	k1 := KeyOf(row, []string{"code", "date"})
	k2 := KeyOf(Row{"code": "005930", "date": "2025-01-02"}, []string{"code", "date"})
	assert.Equal(t, k1, k2)

	k3 := KeyOf(Row{"code": "005930", "date": "2025-01-03"}, []string{"code", "date"})
	assert.NotEqual(t, k1, k3)
}

func TestTable_Basics(t *testing.T) {
	table := New("code", "price")
	table.Append(Row{"code": "A", "price": 1.0})
	table.Append(Row{"code": "B", "price": 2.0})

	assert.Equal(t, 2, table.RowCount())
	assert.True(t, table.HasColumn("price"))
	assert.False(t, table.HasColumn("volume"))
}
