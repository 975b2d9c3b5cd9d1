package router

import (
	"math/big"
	"sort"

	"github.com/dexroute/arb-engine-go/bitset"
	"github.com/dexroute/arb-engine-go/poolgraph"
)

// RoutesResponse is the point-to-point quoting result: candidate routes
// ranked by output, plus liquidity-depth tiers for the best route. Plain
// data, serializable to any interchange format.
type RoutesResponse struct {
	TokenIn    uint64        `json:"tokenIn"`
	TokenOut   uint64        `json:"tokenOut"`
	AmountIn   *big.Int      `json:"amountIn"`
	Routes     []*RouteQuote `json:"routes"`
	DepthTiers []DepthTier   `json:"depthTiers,omitempty"`
}

// DepthTier reports the best route's behavior at an escalating input size,
// expressed as a fraction of the first hop's input-side reserves.
type DepthTier struct {
	Label         string   `json:"label"`
	AmountIn      *big.Int `json:"amountIn"`
	AmountOut     *big.Int `json:"amountOut"`
	EffectiveRate float64  `json:"effectiveRate"`
	PriceImpact   float64  `json:"priceImpact"`
}

// depthTierDivisors maps tier labels to divisors of the first hop's
// reserve-in: amount = reserveIn / divisor.
var depthTierDivisors = []struct {
	label   string
	divisor int64
}{
	{"0.1%", 1000},
	{"1%", 100},
	{"5%", 20},
	{"10%", 10},
}

// pathState is one partial path on the explicit traversal stack.
type pathState struct {
	token     uint64
	path      []poolgraph.Edge
	visited   bitset.BitSet
	usedPools []uint64
}

// FindRoutes enumerates simple paths from tokenIn to tokenOut up to maxHops,
// quotes each at amountIn, and returns the top maxRoutes by output. Paths
// that cannot service amountIn are dropped. Depth tiers are attached for the
// best route found.
func FindRoutes(
	graph *poolgraph.Graph,
	tokenIn, tokenOut uint64,
	amountIn *big.Int,
	maxHops, maxRoutes int,
) (*RoutesResponse, error) {
	resp := &RoutesResponse{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountIn,
	}
	if !graph.HasToken(tokenIn) || !graph.HasToken(tokenOut) || tokenIn == tokenOut {
		return resp, nil
	}

	paths := enumeratePaths(graph, tokenIn, tokenOut, maxHops)

	quotes := make([]*RouteQuote, 0, len(paths))
	for _, path := range paths {
		quote, err := Quote(path, amountIn)
		if err != nil {
			continue // infeasible at this size, not an error
		}
		quotes = append(quotes, quote)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].AmountOut.Cmp(quotes[j].AmountOut) > 0
	})
	if len(quotes) > maxRoutes {
		quotes = quotes[:maxRoutes]
	}
	resp.Routes = quotes

	if len(quotes) > 0 {
		resp.DepthTiers = depthTiers(quotes[0].Route)
	}
	return resp, nil
}

// enumeratePaths walks the graph with an explicit stack, collecting every
// simple path (no token or pool reuse) from 'from' to 'to' within maxHops.
func enumeratePaths(graph *poolgraph.Graph, from, to uint64, maxHops int) []Route {
	numTokens := uint64(graph.TokenCount())
	startIdx, ok := graph.TokenIndex(from)
	if !ok {
		return nil
	}

	visited := bitset.NewBitSet(numTokens)
	visited.Set(uint64(startIdx))

	stack := []pathState{{token: from, visited: visited}}
	var found []Route

	for len(stack) > 0 {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, edge := range graph.Edges(state.token) {
			if poolUsed(state.usedPools, edge.PoolID) {
				continue
			}

			if edge.To == to {
				path := make(Route, len(state.path)+1)
				copy(path, state.path)
				path[len(state.path)] = edge
				found = append(found, path)
				continue
			}

			if len(state.path)+1 >= maxHops {
				continue
			}
			toIdx, ok := graph.TokenIndex(edge.To)
			if !ok || state.visited.IsSet(uint64(toIdx)) {
				continue
			}

			nextVisited := state.visited.Clone()
			nextVisited.Set(uint64(toIdx))
			nextPath := make([]poolgraph.Edge, len(state.path)+1)
			copy(nextPath, state.path)
			nextPath[len(state.path)] = edge
			nextPools := make([]uint64, len(state.usedPools)+1)
			copy(nextPools, state.usedPools)
			nextPools[len(state.usedPools)] = edge.PoolID

			stack = append(stack, pathState{
				token:     edge.To,
				path:      nextPath,
				visited:   nextVisited,
				usedPools: nextPools,
			})
		}
	}
	return found
}

func poolUsed(pools []uint64, poolID uint64) bool {
	for _, id := range pools {
		if id == poolID {
			return true
		}
	}
	return false
}

// depthTiers quotes a route at escalating fractions of its first hop's
// input-side reserves. Infeasible tiers are omitted.
func depthTiers(route Route) []DepthTier {
	tiers := make([]DepthTier, 0, len(depthTierDivisors))
	reserveIn := route[0].ReserveIn

	for _, tier := range depthTierDivisors {
		amount := new(big.Int).Div(reserveIn, big.NewInt(tier.divisor))
		if amount.Sign() <= 0 {
			continue
		}
		quote, err := Quote(route, amount)
		if err != nil {
			continue
		}
		tiers = append(tiers, DepthTier{
			Label:         tier.label,
			AmountIn:      amount,
			AmountOut:     quote.AmountOut,
			EffectiveRate: quote.EffectiveRate,
			PriceImpact:   quote.PriceImpact,
		})
	}
	return tiers
}
