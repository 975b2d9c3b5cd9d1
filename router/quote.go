// Package router evaluates routes over the pool graph: deterministic quoting
// of a fixed edge sequence at a fixed input, and point-to-point route search
// with liquidity-depth tiers.
package router

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dexroute/arb-engine-go/calculator"
	"github.com/dexroute/arb-engine-go/poolgraph"
)

var (
	// ErrEmptyRoute is returned when a route has no hops.
	ErrEmptyRoute = errors.New("route has no hops")
	// ErrBrokenRoute is returned when consecutive edges do not share a token.
	ErrBrokenRoute = errors.New("route edges are not connected")
	// ErrUnavailable is returned when any hop cannot service its input amount.
	ErrUnavailable = errors.New("route unavailable at this amount")
)

// Route is an ordered edge sequence where each edge's source token equals
// the previous edge's destination token.
type Route []poolgraph.Edge

// HopQuote is the evaluation of a single hop at a specific input.
type HopQuote struct {
	PoolID    uint64
	From      uint64
	To        uint64
	AmountIn  *big.Int
	AmountOut *big.Int

	// FeeAmount is the proportional fee charged on this hop's input,
	// denominated in the hop's input token.
	FeeAmount *big.Int

	// PriceImpact is 1 - realizedRate/spotRate, where spotRate is the
	// fee-adjusted marginal rate at zero size. It isolates the degradation
	// caused by trade size moving the reserves; the fee itself is reported
	// separately in FeeAmount.
	PriceImpact float64
}

// RouteQuote is the evaluation of a whole route at a specific input.
// It is derived data: recomputed whenever the route or input changes,
// never persisted.
type RouteQuote struct {
	Route     Route
	Hops      []HopQuote
	AmountIn  *big.Int
	AmountOut *big.Int

	// TotalFees is the sum of per-hop fee amounts. Hops charge fees in
	// their own input tokens, so this is a display aggregate, not a value
	// in any single denomination.
	TotalFees *big.Int

	// PriceImpact is the compounded per-hop impact: 1 - prod(1-impact_k).
	PriceImpact float64

	// EffectiveRate is AmountOut/AmountIn.
	EffectiveRate float64
}

// Quote evaluates route at amountIn by chaining swap math forward: each
// hop's output becomes the next hop's input. It is a pure function of its
// inputs and safe to call concurrently for different routes or amounts.
// The first infeasible hop aborts the quote with ErrUnavailable.
func Quote(route Route, amountIn *big.Int) (*RouteQuote, error) {
	if len(route) == 0 {
		return nil, ErrEmptyRoute
	}
	for i := 1; i < len(route); i++ {
		if route[i].From != route[i-1].To {
			return nil, fmt.Errorf("%w: hop %d starts at token %d, previous ends at token %d",
				ErrBrokenRoute, i, route[i].From, route[i-1].To)
		}
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive input", ErrUnavailable)
	}

	hops := make([]HopQuote, 0, len(route))
	running := new(big.Int).Set(amountIn)
	totalFees := new(big.Int)
	survival := 1.0 // running product of (1 - impact_k)

	for i, edge := range route {
		out, err := calculator.GetAmountOut(running, edge.ReserveIn, edge.ReserveOut, edge.FeeNum, edge.FeeDen)
		if err != nil {
			return nil, fmt.Errorf("%w: hop %d: %v", ErrUnavailable, i, err)
		}
		if out.Sign() <= 0 {
			return nil, fmt.Errorf("%w: hop %d produced zero output", ErrUnavailable, i)
		}

		fee := calculator.FeeAmount(running, edge.FeeNum, edge.FeeDen)
		impact := hopPriceImpact(running, out, edge)

		hops = append(hops, HopQuote{
			PoolID:      edge.PoolID,
			From:        edge.From,
			To:          edge.To,
			AmountIn:    new(big.Int).Set(running),
			AmountOut:   out,
			FeeAmount:   fee,
			PriceImpact: impact,
		})
		totalFees.Add(totalFees, fee)
		survival *= 1 - impact
		running = out
	}

	return &RouteQuote{
		Route:         route,
		Hops:          hops,
		AmountIn:      new(big.Int).Set(amountIn),
		AmountOut:     running,
		TotalFees:     totalFees,
		PriceImpact:   1 - survival,
		EffectiveRate: bigRatio(running, amountIn),
	}, nil
}

// hopPriceImpact compares the realized rate against the fee-adjusted spot
// rate at zero size: spot = (feeDen-feeNum)*reserveOut / (feeDen*reserveIn).
func hopPriceImpact(amountIn, amountOut *big.Int, edge poolgraph.Edge) float64 {
	spotNum := new(big.Int).SetUint64(edge.FeeDen - edge.FeeNum)
	spotNum.Mul(spotNum, edge.ReserveOut)
	spotDen := new(big.Int).SetUint64(edge.FeeDen)
	spotDen.Mul(spotDen, edge.ReserveIn)

	// realized/spot = (amountOut * spotDen) / (amountIn * spotNum)
	num := new(big.Int).Mul(amountOut, spotDen)
	den := new(big.Int).Mul(amountIn, spotNum)
	ratio := bigRatio(num, den)

	impact := 1 - ratio
	if impact < 0 {
		// Integer flooring can nudge the realized rate a hair above spot
		// at tiny sizes; clamp rather than report a negative impact.
		impact = 0
	}
	return impact
}

func bigRatio(num, den *big.Int) float64 {
	if den.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(num), new(big.Float).SetInt(den)).Float64()
	return f
}
