package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBalance(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"1043.25", 1043.25},
		{"0", 0},
		{"  250.5  ", 250.5},
		{"0.000001", 0.000001},
	}

	for _, tc := range cases {
		got, err := ParseBalance(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.InDelta(t, tc.want, got, 1e-12)
	}
}

func TestParseBalanceRejectsBadInput(t *testing.T) {
	_, err := ParseBalance("")
	assert.ErrorIs(t, err, ErrBalanceEmpty)

	_, err = ParseBalance("   ")
	assert.ErrorIs(t, err, ErrBalanceEmpty)

	_, err = ParseBalance("not-a-number")
	assert.ErrorIs(t, err, ErrBalanceInvalid)

	_, err = ParseBalance("1e6")
	assert.ErrorIs(t, err, ErrBalanceInvalid)

	_, err = ParseBalance("-5")
	assert.ErrorIs(t, err, ErrBalanceNegative)
}

func TestBalanceValueUSD(t *testing.T) {
	value, err := BalanceValueUSD("1000", 1.0001)
	require.NoError(t, err)
	assert.InDelta(t, 1000.1, value, 1e-6)

	_, err = BalanceValueUSD("1000", -1)
	assert.ErrorIs(t, err, ErrPriceInvalid)

	_, err = BalanceValueUSD("", 1)
	assert.ErrorIs(t, err, ErrBalanceEmpty)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 1.0, Clamp01(1.5))
	assert.Equal(t, 0.42, Clamp01(0.42))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}
