package arbitrage

import (
	"github.com/dexroute/arb-engine-go/bitset"
	"github.com/dexroute/arb-engine-go/poolgraph"
	"github.com/dexroute/arb-engine-go/router"
)

// cycleState is one partial path on the explicit traversal stack. The
// traversal is iterative rather than recursive so that pathological graphs
// cannot blow the goroutine stack.
type cycleState struct {
	token         uint64
	path          []poolgraph.Edge
	visitedTokens bitset.BitSet
	usedPools     []uint64
}

// FindCycles enumerates every distinct edge sequence that starts and ends at
// baseToken within maxHops, never reusing a pool and never revisiting a
// non-base token. The no-pool-reuse rule also excludes the degenerate 1-hop
// "cycle" straight back through the same pool.
func FindCycles(graph *poolgraph.Graph, baseToken uint64, maxHops int) []router.Route {
	baseIdx, ok := graph.TokenIndex(baseToken)
	if !ok {
		return nil
	}

	visited := bitset.NewBitSet(uint64(graph.TokenCount()))
	visited.Set(uint64(baseIdx))

	stack := []cycleState{{token: baseToken, visitedTokens: visited}}
	var cycles []router.Route

	for len(stack) > 0 {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, edge := range graph.Edges(state.token) {
			if poolInPath(state.usedPools, edge.PoolID) {
				continue
			}

			if edge.To == baseToken {
				if len(state.path) == 0 {
					continue // cannot happen: the only 1-hop return reuses the pool
				}
				cycle := make(router.Route, len(state.path)+1)
				copy(cycle, state.path)
				cycle[len(state.path)] = edge
				cycles = append(cycles, cycle)
				continue // a closed cycle is never extended
			}

			if len(state.path)+1 >= maxHops {
				continue
			}
			toIdx, ok := graph.TokenIndex(edge.To)
			if !ok || state.visitedTokens.IsSet(uint64(toIdx)) {
				continue
			}

			nextVisited := state.visitedTokens.Clone()
			nextVisited.Set(uint64(toIdx))
			nextPath := make([]poolgraph.Edge, len(state.path)+1)
			copy(nextPath, state.path)
			nextPath[len(state.path)] = edge
			nextPools := make([]uint64, len(state.usedPools)+1)
			copy(nextPools, state.usedPools)
			nextPools[len(state.usedPools)] = edge.PoolID

			stack = append(stack, cycleState{
				token:         edge.To,
				path:          nextPath,
				visitedTokens: nextVisited,
				usedPools:     nextPools,
			})
		}
	}
	return cycles
}

func poolInPath(pools []uint64, poolID uint64) bool {
	for _, id := range pools {
		if id == poolID {
			return true
		}
	}
	return false
}
