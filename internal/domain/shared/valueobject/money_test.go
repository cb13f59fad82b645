package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), SAR)
		require.NoError(t, err)
		assert.Equal(t, SAR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromFloat(t *testing.T) {
	m, err := NewMoneyFromFloat(99.99, USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", SAR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", SAR)
		assert.Error(t, err)
	})
}

func TestNewMoneySAR(t *testing.T) {
	m := NewMoneySAR(decimal.NewFromFloat(50.00))
	assert.Equal(t, SAR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestNewMoneySARFromFloat(t *testing.T) {
	m := NewMoneySARFromFloat(75.50)
	assert.Equal(t, SAR, m.Currency())
	assert.Equal(t, 75.5, m.Float64())
}

func TestNewMoneySARFromString(t *testing.T) {
	m, err := NewMoneySARFromString("199.99")
	require.NoError(t, err)
	assert.Equal(t, SAR, m.Currency())

	_, err = NewMoneySARFromString("bogus")
	assert.Error(t, err)
}

func TestZero(t *testing.T) {
	m := Zero(USD)
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency())
}

func TestZeroSAR(t *testing.T) {
	m := ZeroSAR()
	assert.True(t, m.IsZero())
	assert.Equal(t, SAR, m.Currency())
}

func TestMoneyIsPositiveNegativeZero(t *testing.T) {
	positive := NewMoneySARFromFloat(100)
	negative := NewMoneySARFromFloat(-100)
	zero := ZeroSAR()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())
	assert.False(t, positive.IsZero())

	assert.False(t, negative.IsPositive())
	assert.True(t, negative.IsNegative())
	assert.False(t, negative.IsZero())

	assert.False(t, zero.IsPositive())
	assert.False(t, zero.IsNegative())
	assert.True(t, zero.IsZero())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		m1 := NewMoneySARFromFloat(100.50)
		m2 := NewMoneySARFromFloat(50.25)
		result, err := m1.Add(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(150.75)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoneyFromFloat(100, SAR)
		m2, _ := NewMoneyFromFloat(50, USD)
		_, err := m1.Add(m2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "different currencies")
	})
}

func TestMoneyMustAdd(t *testing.T) {
	t.Run("same currency", func(t *testing.T) {
		result := NewMoneySARFromFloat(10).MustAdd(NewMoneySARFromFloat(5))
		assert.Equal(t, 15.0, result.Float64())
	})

	t.Run("panics for different currencies", func(t *testing.T) {
		m1, _ := NewMoneyFromFloat(10, SAR)
		m2, _ := NewMoneyFromFloat(5, USD)
		assert.Panics(t, func() { m1.MustAdd(m2) })
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		m1 := NewMoneySARFromFloat(100)
		m2 := NewMoneySARFromFloat(30)
		result, err := m1.Subtract(m2)
		require.NoError(t, err)
		assert.Equal(t, 70.0, result.Float64())
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoneyFromFloat(100, SAR)
		m2, _ := NewMoneyFromFloat(30, EUR)
		_, err := m1.Subtract(m2)
		assert.Error(t, err)
	})

	t.Run("result can be negative", func(t *testing.T) {
		result := NewMoneySARFromFloat(30).MustSubtract(NewMoneySARFromFloat(100))
		assert.True(t, result.IsNegative())
	})
}

func TestMoneyMultiply(t *testing.T) {
	m := NewMoneySARFromFloat(1000)

	annual := m.MultiplyByInt(12)
	assert.Equal(t, 12000.0, annual.Float64())

	fees := annual.Multiply(decimal.NewFromFloat(0.03))
	assert.Equal(t, 360.0, fees.Float64())
}

func TestMoneyNegateAndRound(t *testing.T) {
	m := NewMoneySARFromFloat(10.456)
	assert.Equal(t, -10.456, m.Negate().Float64())
	assert.Equal(t, 10.46, m.Round(2).Float64())
}

func TestMoneyComparisons(t *testing.T) {
	small := NewMoneySARFromFloat(10)
	big := NewMoneySARFromFloat(20)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := big.GreaterThanOrEqual(big)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, small.Equals(NewMoneySARFromFloat(10)))
	assert.False(t, small.Equals(big))

	usd, _ := NewMoneyFromFloat(10, USD)
	_, err = small.LessThan(usd)
	assert.Error(t, err)
}

func TestMoneyString(t *testing.T) {
	m := NewMoneySARFromFloat(1234.5)
	assert.Equal(t, "1234.50 SAR", m.String())
	assert.Equal(t, "1234.500", m.StringFixed(3))
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	original := NewMoneySARFromFloat(99.95)
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equals(decoded))
}

func TestMoneyUnmarshalJSONInvalidAmount(t *testing.T) {
	var m Money
	err := json.Unmarshal([]byte(`{"amount":"abc","currency":"SAR"}`), &m)
	assert.Error(t, err)
}

func TestMoneyValue(t *testing.T) {
	m := NewMoneySARFromFloat(42.42)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "42.42", v)
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("123.45"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans bytes", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan([]byte("10.00")))
		assert.Equal(t, 10.0, m.Float64())
	})

	t.Run("scans nil to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(12345))
	})
}
