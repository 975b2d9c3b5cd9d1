package arbitrage

import (
	"math/big"

	"github.com/dexroute/arb-engine-go/router"
)

const (
	// optimizerIterations bounds the ternary search. 72 halvings-by-thirds
	// shrink any bracket that fits in 2^63 below unit precision.
	optimizerIterations = 72
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Optimize ternary-searches [lo, hi] for the input amount maximizing
// profit(x) = Quote(cycle, x).AmountOut - x. hi is capped at the smaller of
// the first hop's input-side reserves and the supplied absolute ceiling
// (inputs past either can never succeed). Returns nil when no feasible
// range remains.
//
// The profit curve is assumed unimodal: it rises while the arbitrage gap
// dominates and falls once price impact dominates. Integer rounding across
// hops can flatten the peak into small plateaus, so near-ties resolve toward
// the larger input; after tightening, larger trades are less sensitive to
// off-by-one rounding. The result is the midpoint of the final bracket and
// callers must re-quote at it for final numbers.
func Optimize(cycle router.Route, lo, hi *big.Int) *big.Int {
	if len(cycle) == 0 || lo == nil || hi == nil {
		return nil
	}

	hiCap := new(big.Int).Set(hi)
	if hiCap.Cmp(cycle[0].ReserveIn) > 0 {
		hiCap.Set(cycle[0].ReserveIn)
	}
	if hiCap.Cmp(lo) <= 0 {
		return nil // no feasible range; the cycle is skipped
	}

	left := new(big.Int).Set(lo)
	right := new(big.Int).Set(hiCap)
	width := new(big.Int)
	third := new(big.Int)

	for i := 0; i < optimizerIterations; i++ {
		width.Sub(right, left)
		if width.Cmp(two) < 0 {
			break // bracket below unit precision
		}
		third.Div(width, three)

		m1 := new(big.Int).Add(left, third)
		m2 := new(big.Int).Sub(right, third)

		p1, ok1 := cycleProfit(cycle, m1)
		p2, ok2 := cycleProfit(cycle, m2)

		switch {
		case !ok1 && !ok2:
			// A quote only becomes unavailable when some hop's output
			// floors to zero, and output is monotone in input, so an
			// infeasible pair means the feasible region lies above m2.
			left.Set(m2)
		case !ok1:
			left.Set(m1)
		case !ok2:
			right.Set(m2)
		case p1.Cmp(p2) > 0:
			right.Set(m2)
		default:
			// p2 >= p1: ties move toward the larger input.
			left.Set(m1)
		}
	}

	mid := new(big.Int).Add(left, right)
	return mid.Div(mid, two)
}

// cycleProfit evaluates profit(x) for one cycle. An unavailable quote is
// the optimizer's negative infinity: reported as not-ok so the search
// steers away from infeasible regions.
func cycleProfit(cycle router.Route, amountIn *big.Int) (*big.Int, bool) {
	quote, err := router.Quote(cycle, amountIn)
	if err != nil {
		return nil, false
	}
	return new(big.Int).Sub(quote.AmountOut, amountIn), true
}
