package arbitrage

import (
	"math/big"

	"github.com/dexroute/arb-engine-go/calculator"
	"github.com/dexroute/arb-engine-go/router"
)

// Tighten removes forward-rounding waste from a confirmed route. Starting
// from the last hop's output, it walks the hops in reverse and replaces each
// forward-rounded input with the exact minimal input from the inverse swap
// function; the first hop's requirement is the tightened overall input.
//
// On success it re-quotes the route forward from the tightened input so the
// reported per-hop detail stays internally consistent, and returns that
// quote. If any hop's inverse is unavailable, or the tightened quote fails
// or would undershoot the original final output, the forward quote is
// returned unchanged: tightening never fails a scan.
func Tighten(forward *router.RouteQuote) *router.RouteQuote {
	if forward == nil || len(forward.Hops) == 0 {
		return forward
	}

	required := new(big.Int).Set(forward.Hops[len(forward.Hops)-1].AmountOut)

	for k := len(forward.Route) - 1; k >= 0; k-- {
		edge := forward.Route[k]
		in, err := calculator.GetAmountIn(required, edge.ReserveIn, edge.ReserveOut, edge.FeeNum, edge.FeeDen)
		if err != nil {
			return forward
		}
		required = in
	}
	tightenedInput := required

	// The inverse of each hop's own output can only shrink the input.
	if tightenedInput.Cmp(forward.AmountIn) >= 0 {
		return forward
	}

	tightened, err := router.Quote(forward.Route, tightenedInput)
	if err != nil {
		return forward
	}
	if tightened.AmountOut.Cmp(forward.AmountOut) < 0 {
		return forward
	}
	return tightened
}
