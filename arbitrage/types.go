// Package arbitrage enumerates profitable round-trip cycles over a pool
// graph: depth-first cycle discovery, per-cycle input optimization, reverse
// tightening of forward rounding waste, and ranked snapshot assembly.
package arbitrage

import (
	"math/big"
	"time"

	"github.com/dexroute/arb-engine-go/router"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// CircularArb is one profitable cycle at its optimized input. Constructed
// once per scan, immutable, discarded at the next scan.
type CircularArb struct {
	// PathLabel is the human-readable token sequence, e.g. "XPR > USDC > BTC > XPR".
	PathLabel string `json:"pathLabel"`

	Hops    int      `json:"hops"`
	PoolIDs []uint64 `json:"poolIds"`

	AmountIn  *big.Int `json:"amountIn"`
	AmountOut *big.Int `json:"amountOut"`

	// GrossProfit is AmountOut - AmountIn.
	GrossProfit *big.Int `json:"grossProfit"`
	// TxFee is the fixed per-hop transaction fee times Hops.
	TxFee *big.Int `json:"txFee"`
	// NetProfit is GrossProfit - TxFee.
	NetProfit *big.Int `json:"netProfit"`
	// NetProfitPct is NetProfit relative to AmountIn, in percent.
	NetProfitPct float64 `json:"netProfitPct"`

	// Route carries the full per-hop detail for display.
	Route *router.RouteQuote `json:"route"`
}

// Snapshot is the ranked result set of one scan: every CircularArb passing
// the minimum-net-profit filter, sorted by net profit descending, plus the
// profit total and the scan's wall-clock duration. No cross-snapshot state
// is retained by the engine.
type Snapshot struct {
	Results        []CircularArb `json:"results"`
	TotalNetProfit *big.Int      `json:"totalNetProfit"`
	Duration       time.Duration `json:"duration"`
}
