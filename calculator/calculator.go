// Package calculator implements exact, rounding-aware constant-product swap
// arithmetic with a proportional input fee.
//
// GetAmountOut always floors (the pool is protected; the caller never
// receives more than it is entitled to) and GetAmountIn always ceilings
// (the caller never under-pays). The asymmetry means
// GetAmountOut(GetAmountIn(y)) >= y, possibly by a small integer slack;
// multi-hop callers remove that slack by walking routes backward through
// GetAmountIn.
package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
)

var (
	// ErrInvalidAmount is returned when an input/output amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrNilAmount is returned when a nil pointer is passed for an amount.
	ErrNilAmount = errors.New("nil pointer passed as amount")
	// ErrInvalidReserves is returned when a reserve is nil, zero or negative.
	ErrInvalidReserves = errors.New("reserves must be positive")
	// ErrInvalidFee is returned when the fee schedule is degenerate.
	ErrInvalidFee = errors.New("fee numerator must be below denominator")
	// ErrInsufficientLiquidity is returned when an amountOut is requested that is
	// greater than or equal to the available reserve.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for swap")
)

// Calculator holds reusable big.Int objects to avoid allocations during
// calculations. Instances are NOT safe for concurrent use by themselves;
// they are managed by the sync.Pool below.
type Calculator struct {
	feeMultiplier   *big.Int
	amountInWithFee *big.Int
	numerator       *big.Int
	denominator     *big.Int
	remainder       *big.Int
}

var calculatorPool = sync.Pool{
	New: func() any {
		return &Calculator{
			feeMultiplier:   new(big.Int),
			amountInWithFee: new(big.Int),
			numerator:       new(big.Int),
			denominator:     new(big.Int),
			remainder:       new(big.Int),
		}
	},
}

// GetAmountOut computes the floored output of a swap:
//
//	floor(amountIn*(feeDen-feeNum)*reserveOut / (reserveIn*feeDen + amountIn*(feeDen-feeNum)))
//
// Reserves are oriented to the traversal direction. Intermediate products are
// arbitrary precision, so reserves and amounts up to 2^63 cannot overflow.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeNum, feeDen uint64) (*big.Int, error) {
	calc := calculatorPool.Get().(*Calculator)
	defer calculatorPool.Put(calc)
	return calc.getAmountOut(amountIn, reserveIn, reserveOut, feeNum, feeDen)
}

// GetAmountIn computes the exact minimal (ceiling-rounded) input that yields
// at least amountOut:
//
//	ceil(reserveIn*feeDen*amountOut / ((reserveOut-amountOut)*(feeDen-feeNum)))
//
// It fails with ErrInsufficientLiquidity when amountOut >= reserveOut: a pool
// cannot output its entire reserve.
func GetAmountIn(amountOut, reserveIn, reserveOut *big.Int, feeNum, feeDen uint64) (*big.Int, error) {
	calc := calculatorPool.Get().(*Calculator)
	defer calculatorPool.Put(calc)
	return calc.getAmountIn(amountOut, reserveIn, reserveOut, feeNum, feeDen)
}

func validateFee(feeNum, feeDen uint64) error {
	if feeDen == 0 || feeNum >= feeDen {
		return fmt.Errorf("%w: %d/%d", ErrInvalidFee, feeNum, feeDen)
	}
	return nil
}

func validateReserves(reserveIn, reserveOut *big.Int) error {
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return ErrInvalidReserves
	}
	return nil
}

func (c *Calculator) getAmountOut(amountIn, reserveIn, reserveOut *big.Int, feeNum, feeDen uint64) (*big.Int, error) {
	if amountIn == nil {
		return nil, ErrNilAmount
	}
	if amountIn.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := validateReserves(reserveIn, reserveOut); err != nil {
		return nil, err
	}
	if err := validateFee(feeNum, feeDen); err != nil {
		return nil, err
	}

	c.feeMultiplier.SetUint64(feeDen - feeNum)
	c.amountInWithFee.Mul(amountIn, c.feeMultiplier)
	c.numerator.Mul(reserveOut, c.amountInWithFee)
	c.denominator.SetUint64(feeDen)
	c.denominator.Mul(c.denominator, reserveIn)
	c.denominator.Add(c.denominator, c.amountInWithFee)

	return new(big.Int).Div(c.numerator, c.denominator), nil
}

func (c *Calculator) getAmountIn(amountOut, reserveIn, reserveOut *big.Int, feeNum, feeDen uint64) (*big.Int, error) {
	if amountOut == nil {
		return nil, ErrNilAmount
	}
	if amountOut.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := validateReserves(reserveIn, reserveOut); err != nil {
		return nil, err
	}
	if err := validateFee(feeNum, feeDen); err != nil {
		return nil, err
	}
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, fmt.Errorf("%w: requested amountOut (%s) >= reserveOut (%s)",
			ErrInsufficientLiquidity, amountOut.String(), reserveOut.String())
	}

	c.numerator.SetUint64(feeDen)
	c.numerator.Mul(c.numerator, reserveIn)
	c.numerator.Mul(c.numerator, amountOut)

	c.feeMultiplier.SetUint64(feeDen - feeNum)
	c.denominator.Sub(reserveOut, amountOut)
	c.denominator.Mul(c.denominator, c.feeMultiplier)

	amountIn := new(big.Int)
	amountIn.QuoRem(c.numerator, c.denominator, c.remainder)
	if c.remainder.Sign() != 0 {
		amountIn.Add(amountIn, big.NewInt(1))
	}
	return amountIn, nil
}

// FeeAmount returns the floored fee charged on amountIn: amountIn*feeNum/feeDen.
func FeeAmount(amountIn *big.Int, feeNum, feeDen uint64) *big.Int {
	if amountIn == nil || amountIn.Sign() <= 0 || feeDen == 0 {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(amountIn, new(big.Int).SetUint64(feeNum))
	return fee.Div(fee, new(big.Int).SetUint64(feeDen))
}
