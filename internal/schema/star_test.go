package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/riskval/internal/tabular"
)

func dimStock() tabular.Table {
	t := tabular.New("stock_key", "code", "name")
	t.Append(tabular.Row{"stock_key": 1, "code": "005930", "name": "삼성전자"})
	t.Append(tabular.Row{"stock_key": 2, "code": "000660", "name": "SK하이닉스"})
	t.Append(tabular.Row{"stock_key": 3, "code": "035420", "name": "NAVER"})
	return t
}

func factPrices() tabular.Table {
	t := tabular.New("stock_key", "date_key", "close", "volume")
	t.Append(tabular.Row{"stock_key": 1, "date_key": 20250102, "close": 71200.0, "volume": 1000000})
	t.Append(tabular.Row{"stock_key": 2, "date_key": 20250102, "close": 183000.0, "volume": 500000})
	t.Append(tabular.Row{"stock_key": 3, "date_key": 20250102, "close": 201500.0, "volume": 300000})
	return t
}

func TestValidateDimension_Pass(t *testing.T) {
	v := NewValidator(DefaultConventions())
	result := v.ValidateDimension(dimStock(), "dim_stock")

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{"stock_key"}, result.SurrogateKeys)
}

func TestValidateDimension_NoSurrogateKey(t *testing.T) {
	table := tabular.New("code", "name")
	table.Append(tabular.Row{"code": "005930", "name": "삼성전자"})

	v := NewValidator(DefaultConventions())
	result := v.ValidateDimension(table, "dim_stock")

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no surrogate key")
}

func TestValidateDimension_DuplicateKeyBlocks(t *testing.T) {
	table := dimStock()
	table.Append(tabular.Row{"stock_key": 2, "code": "000661", "name": "SK하이닉스(우)"})

	v := NewValidator(DefaultConventions())
	result := v.ValidateDimension(table, "dim_stock")

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `"stock_key"`)
	assert.Contains(t, result.Errors[0], "1 duplicate")
}

func TestValidateDimension_NamingWarningOnly(t *testing.T) {
	v := NewValidator(DefaultConventions())
	result := v.ValidateDimension(dimStock(), "stock_master")

	// 접두사 불일치는 경고일 뿐 차단하지 않는다
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"dim_"`)
}

func TestValidateFact_Pass(t *testing.T) {
	v := NewValidator(DefaultConventions())
	result := v.ValidateFact(factPrices(), "fact_daily_price", []string{"stock_key", "date_key"})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.ElementsMatch(t, []string{"close", "volume"}, result.MeasureColumns)
}

func TestValidateFact_MissingDeclaredKeyBlocks(t *testing.T) {
	v := NewValidator(DefaultConventions())
	result := v.ValidateFact(factPrices(), "fact_daily_price", []string{"stock_key", "sector_key"})

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `"sector_key"`)
}

func TestValidateFact_NoMeasureWarnsOnly(t *testing.T) {
	table := tabular.New("stock_key", "index_key")
	table.Append(tabular.Row{"stock_key": 1, "index_key": 7})

	v := NewValidator(DefaultConventions())
	result := v.ValidateFact(table, "fact_membership", []string{"stock_key", "index_key"})

	// 키 전용 브리지 테이블: 유효하되 경고
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no numeric measure")
	assert.Empty(t, result.MeasureColumns)
}

func TestCheckReferentialIntegrity_NoOrphans(t *testing.T) {
	v := NewValidator(DefaultConventions())
	result, err := v.CheckReferentialIntegrity(
		factPrices(), "fact_daily_price", "stock_key",
		dimStock(), "dim_stock", "stock_key")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, 0, result.OrphanCount)
	assert.Empty(t, result.OrphanSample)
}

func TestCheckReferentialIntegrity_OrphanReported(t *testing.T) {
	fact := factPrices()
	fact.Append(tabular.Row{"stock_key": 99, "date_key": 20250102, "close": 1000.0, "volume": 10})

	v := NewValidator(DefaultConventions())
	result, err := v.CheckReferentialIntegrity(
		fact, "fact_daily_price", "stock_key",
		dimStock(), "dim_stock", "stock_key")
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.GreaterOrEqual(t, result.OrphanCount, 1)
	assert.Contains(t, result.OrphanSample, "99")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "orphaned")
}

func TestCheckReferentialIntegrity_SampleBounded(t *testing.T) {
	fact := tabular.New("stock_key", "close")
	for i := 0; i < 25; i++ {
		fact.Append(tabular.Row{"stock_key": 100 + i, "close": 1000.0})
	}

	v := NewValidator(DefaultConventions())
	result, err := v.CheckReferentialIntegrity(
		fact, "fact_daily_price", "stock_key",
		dimStock(), "dim_stock", "stock_key")
	require.NoError(t, err)

	// 고아 25건이어도 표본은 상한까지만
	assert.Equal(t, 25, result.OrphanCount)
	assert.Len(t, result.OrphanSample, 10)
}

func TestCheckReferentialIntegrity_MissingKeyColumn(t *testing.T) {
	v := NewValidator(DefaultConventions())

	_, err := v.CheckReferentialIntegrity(
		factPrices(), "fact_daily_price", "sector_key",
		dimStock(), "dim_stock", "stock_key")
	assert.ErrorIs(t, err, tabular.ErrMissingColumn)

	_, err = v.CheckReferentialIntegrity(
		factPrices(), "fact_daily_price", "stock_key",
		dimStock(), "dim_stock", "sector_key")
	assert.ErrorIs(t, err, tabular.ErrMissingColumn)
}

func TestNewValidator_FillsDefaults(t *testing.T) {
	v := NewValidator(Conventions{})
	assert.Equal(t, DefaultConventions(), v.conventions)
}
