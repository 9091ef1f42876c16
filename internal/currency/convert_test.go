package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, SOLToUSDC, Convert(1, SOL), 1e-12)
	assert.InDelta(t, 1, Convert(SOLToUSDC, USDC), 1e-12)
	assert.InDelta(t, 0, Convert(0, SOL), 0)
}

func TestConvert_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{0.000001, 0.5, 1, 22.15815322, 100, 12345.678, 1e9} {
		got := Convert(Convert(x, SOL), USDC)
		assert.InEpsilon(t, x, got, 1e-12, "x=%v", x)
	}
}

func TestToLamports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		usdc float64
		want uint64
	}{
		{SOLToUSDC, 1_000_000_000},
		{0, 0},
		{-5, 0},
		{100, 4_513_011_486}, // 4.5130... SOL
	}
	for _, tt := range tests {
		got, err := ToLamports(tt.usdc)
		require.NoError(t, err, "usdc=%v", tt.usdc)
		assert.Equal(t, tt.want, got, "usdc=%v", tt.usdc)
	}
}

func TestToLamports_Overflow(t *testing.T) {
	t.Parallel()

	// past int64 but inside uint64
	got, err := ToLamports(3e11)
	require.NoError(t, err)
	assert.Greater(t, got, uint64(math.MaxInt64))

	for _, usdc := range []float64{1e12, 1e20, math.MaxFloat64, math.Inf(1)} {
		got, err := ToLamports(usdc)
		assert.ErrorIs(t, err, ErrAmountTooLarge, "usdc=%v", usdc)
		assert.Zero(t, got)
	}
}

func TestLamportsToUSDC(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, LamportsToSOL(1_000_000_000), 1e-12)
	assert.InDelta(t, SOLToUSDC, LamportsToUSDC(1_000_000_000), 1e-9)
}

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	c, err := ParseCurrency(" usdc ")
	require.NoError(t, err)
	assert.Equal(t, USDC, c)

	_, err = ParseCurrency("eur")
	assert.Error(t, err)
}
