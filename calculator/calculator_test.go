package calculator

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBigIntFromString is a helper to create a big.Int from a string, needed
// for numbers larger than a standard int64.
func newBigIntFromString(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("failed to set string for big.Int")
	}
	return n
}

func TestGetAmountOut(t *testing.T) {
	testCases := []struct {
		name           string
		amountIn       *big.Int
		reserveIn      *big.Int
		reserveOut     *big.Int
		feeNum         uint64
		feeDen         uint64
		expectedAmount *big.Int
		expectedErr    error
	}{
		{
			name:           "Standard Swap (6-decimals in, 18-decimals out)",
			amountIn:       big.NewInt(1_000_000),
			reserveIn:      big.NewInt(100_000_000),
			reserveOut:     newBigIntFromString("50000000000000000000"),
			feeNum:         3,
			feeDen:         1000,
			expectedAmount: newBigIntFromString("493579017198530649"),
		},
		{
			name:           "Standard Swap (reverse direction)",
			amountIn:       newBigIntFromString("1000000000000000000"),
			reserveIn:      newBigIntFromString("50000000000000000000"),
			reserveOut:     big.NewInt(100_000_000),
			feeNum:         3,
			feeDen:         1000,
			expectedAmount: big.NewInt(1955016),
		},
		{
			name:           "Swap with 1% Fee",
			amountIn:       big.NewInt(1_000_000),
			reserveIn:      big.NewInt(100_000_000),
			reserveOut:     newBigIntFromString("50000000000000000000"),
			feeNum:         10,
			feeDen:         1000,
			expectedAmount: newBigIntFromString("490147539360332706"),
		},
		{
			name:        "Edge Case: Zero Reserve",
			amountIn:    big.NewInt(1_000_000),
			reserveIn:   big.NewInt(0),
			reserveOut:  newBigIntFromString("50000000000000000000"),
			feeNum:      3,
			feeDen:      1000,
			expectedErr: ErrInvalidReserves,
		},
		{
			name:        "Invalid Input: Nil AmountIn",
			amountIn:    nil,
			reserveIn:   big.NewInt(100),
			reserveOut:  big.NewInt(100),
			feeNum:      3,
			feeDen:      1000,
			expectedErr: ErrNilAmount,
		},
		{
			name:        "Invalid Input: Zero AmountIn",
			amountIn:    big.NewInt(0),
			reserveIn:   big.NewInt(100),
			reserveOut:  big.NewInt(100),
			feeNum:      3,
			feeDen:      1000,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "Invalid Input: Negative AmountIn",
			amountIn:    big.NewInt(-100),
			reserveIn:   big.NewInt(100),
			reserveOut:  big.NewInt(100),
			feeNum:      3,
			feeDen:      1000,
			expectedErr: ErrInvalidAmount,
		},
		{
			name:        "Invalid Fee: Numerator At Denominator",
			amountIn:    big.NewInt(100),
			reserveIn:   big.NewInt(100),
			reserveOut:  big.NewInt(100),
			feeNum:      1000,
			feeDen:      1000,
			expectedErr: ErrInvalidFee,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amountOut, err := GetAmountOut(tc.amountIn, tc.reserveIn, tc.reserveOut, tc.feeNum, tc.feeDen)

			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tc.expectedAmount.Cmp(amountOut),
				"expected %s, got %s", tc.expectedAmount, amountOut)
		})
	}
}

func TestGetAmountIn(t *testing.T) {
	testCases := []struct {
		name           string
		amountOut      *big.Int
		reserveIn      *big.Int
		reserveOut     *big.Int
		feeNum         uint64
		feeDen         uint64
		expectedAmount *big.Int
		expectedErr    error
	}{
		{
			name:           "Exact Inverse Of Standard Swap",
			amountOut:      newBigIntFromString("493579017198530649"),
			reserveIn:      big.NewInt(100_000_000),
			reserveOut:     newBigIntFromString("50000000000000000000"),
			feeNum:         3,
			feeDen:         1000,
			expectedAmount: big.NewInt(1_000_000),
		},
		{
			name:           "Ceiling On Small Amounts",
			amountOut:      big.NewInt(500),
			reserveIn:      big.NewInt(10_000),
			reserveOut:     big.NewInt(20_000),
			feeNum:         3,
			feeDen:         1000,
			expectedAmount: big.NewInt(258),
		},
		{
			name:        "Insufficient Liquidity: AmountOut Equals Reserve",
			amountOut:   big.NewInt(20_000),
			reserveIn:   big.NewInt(10_000),
			reserveOut:  big.NewInt(20_000),
			feeNum:      3,
			feeDen:      1000,
			expectedErr: ErrInsufficientLiquidity,
		},
		{
			name:        "Insufficient Liquidity: AmountOut Exceeds Reserve",
			amountOut:   big.NewInt(20_001),
			reserveIn:   big.NewInt(10_000),
			reserveOut:  big.NewInt(20_000),
			feeNum:      3,
			feeDen:      1000,
			expectedErr: ErrInsufficientLiquidity,
		},
		{
			name:        "Invalid Input: Zero AmountOut",
			amountOut:   big.NewInt(0),
			reserveIn:   big.NewInt(10_000),
			reserveOut:  big.NewInt(20_000),
			feeNum:      3,
			feeDen:      1000,
			expectedErr: ErrInvalidAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amountIn, err := GetAmountIn(tc.amountOut, tc.reserveIn, tc.reserveOut, tc.feeNum, tc.feeDen)

			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tc.expectedAmount.Cmp(amountIn),
				"expected %s, got %s", tc.expectedAmount, amountIn)
		})
	}
}

// TestRoundingDirection checks the core rounding invariant against exact
// rational arithmetic: GetAmountOut never exceeds the real-valued
// constant-product output, and GetAmountIn never undershoots the
// real-valued required input.
func TestRoundingDirection(t *testing.T) {
	cases := []struct {
		reserveIn, reserveOut, amount int64
	}{
		{100, 200, 10},
		{10_000, 20_000, 500},
		{1_000_000, 3_000_000, 123_457},
		{7_919, 104_729, 997},
		{2_000_000, 1_000_000, 19_743},
	}
	const feeNum, feeDen = 3, 1000

	for _, c := range cases {
		t.Run(fmt.Sprintf("ri=%d,ro=%d,amt=%d", c.reserveIn, c.reserveOut, c.amount), func(t *testing.T) {
			ri := big.NewInt(c.reserveIn)
			ro := big.NewInt(c.reserveOut)
			amt := big.NewInt(c.amount)

			out, err := GetAmountOut(amt, ri, ro, feeNum, feeDen)
			require.NoError(t, err)

			// exactOut = amt*(feeDen-feeNum)*ro / (ri*feeDen + amt*(feeDen-feeNum))
			effIn := new(big.Rat).SetFrac(
				new(big.Int).Mul(amt, big.NewInt(feeDen-feeNum)),
				big.NewInt(feeDen),
			)
			exactOut := new(big.Rat).Mul(effIn, new(big.Rat).SetInt(ro))
			exactOut.Quo(exactOut, new(big.Rat).Add(new(big.Rat).SetInt(ri), effIn))
			assert.True(t, new(big.Rat).SetInt(out).Cmp(exactOut) <= 0,
				"floored output %s exceeds exact %s", out, exactOut.FloatString(6))

			if c.amount < c.reserveOut {
				in, err := GetAmountIn(amt, ri, ro, feeNum, feeDen)
				require.NoError(t, err)

				// exactIn = ri*feeDen*amt / ((ro-amt)*(feeDen-feeNum))
				exactIn := new(big.Rat).SetFrac(
					new(big.Int).Mul(new(big.Int).Mul(ri, big.NewInt(feeDen)), amt),
					new(big.Int).Mul(new(big.Int).Sub(ro, amt), big.NewInt(feeDen-feeNum)),
				)
				assert.True(t, new(big.Rat).SetInt(in).Cmp(exactIn) >= 0,
					"ceiled input %s undershoots exact %s", in, exactIn.FloatString(6))
			}
		})
	}
}

// TestInverseRoundTrip checks that feeding the inverse-computed input back
// through the forward function always yields at least the requested output.
func TestInverseRoundTrip(t *testing.T) {
	reserveIn := big.NewInt(1_000_000)
	reserveOut := big.NewInt(2_000_000)

	for _, want := range []int64{1, 7, 500, 9_745, 250_000, 1_999_999} {
		in, err := GetAmountIn(big.NewInt(want), reserveIn, reserveOut, 3, 1000)
		require.NoError(t, err, "amountOut=%d", want)

		out, err := GetAmountOut(in, reserveIn, reserveOut, 3, 1000)
		require.NoError(t, err, "amountOut=%d", want)
		assert.True(t, out.Cmp(big.NewInt(want)) >= 0,
			"round trip for %d produced %s", want, out)
	}
}

func TestFeeAmount(t *testing.T) {
	assert.Equal(t, int64(30), FeeAmount(big.NewInt(10_000), 3, 1000).Int64())
	assert.Equal(t, int64(0), FeeAmount(big.NewInt(100), 3, 1000).Int64())
	assert.Equal(t, int64(0), FeeAmount(nil, 3, 1000).Int64())
	assert.Equal(t, int64(0), FeeAmount(big.NewInt(-5), 3, 1000).Int64())
}
