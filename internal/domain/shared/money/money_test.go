package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(45000, "eur")
	require.NoError(t, err)
	assert.Equal(t, int64(45000), m.Amount)
	assert.Equal(t, "EUR", m.Currency)

	_, err = New(100, "EURO")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestArithmetic(t *testing.T) {
	a := Must(30000, "EUR")
	b := Must(15000, "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), diff.Amount)

	_, err = a.Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	assert.Equal(t, int64(90000), a.Multiply(3).Amount)
	assert.True(t, Money{}.IsZero())
}

func TestString(t *testing.T) {
	assert.Equal(t, "450.00 EUR", Must(45000, "EUR").String())
	assert.Equal(t, "0.05 EUR", Must(5, "EUR").String())
	assert.Equal(t, "-12.34 EUR", Must(-1234, "EUR").String())
}
