// Package poolgraph turns a flat pool snapshot into direction-aware
// adjacency. A graph is built once per snapshot and is read-only
// thereafter, so it is safe to share across concurrent scans.
package poolgraph

import (
	"math/big"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/dexroute/arb-engine-go/engine"
)

// Edge is one directed traversal option derived from a pool. Reserves are
// oriented to the traversal direction. Both edges of a pool carry the same
// PoolID, which is what the no-pool-reuse invariant keys on.
type Edge struct {
	PoolID     uint64
	Kind       engine.PoolKind
	From       uint64
	To         uint64
	ReserveIn  *big.Int
	ReserveOut *big.Int
	FeeNum     uint64
	FeeDen     uint64
}

// Graph maps each token to its outbound edges. Every edge in the graph has
// both-side reserves > 0; degenerate pools are dropped at construction.
type Graph struct {
	adjacency map[uint64][]Edge
	tokens    mapset.Set[uint64]

	// Dense token indexing for bitset-based traversal state.
	tokenList    []uint64
	tokenToIndex map[uint64]int

	poolCount int
}

// Build constructs a graph from a pool list, silently dropping pools whose
// reserves are missing, non-positive, or below minLiquidity on either side.
// A nil minLiquidity disables the liquidity filter.
func Build(pools []engine.Pool, minLiquidity *big.Int) *Graph {
	g := &Graph{
		adjacency:    make(map[uint64][]Edge),
		tokens:       mapset.NewThreadUnsafeSet[uint64](),
		tokenToIndex: make(map[uint64]int),
	}

	for _, pool := range pools {
		if pool.Reserve0 == nil || pool.Reserve1 == nil {
			continue
		}
		if pool.Reserve0.Sign() <= 0 || pool.Reserve1.Sign() <= 0 {
			continue
		}
		if minLiquidity != nil &&
			(pool.Reserve0.Cmp(minLiquidity) < 0 || pool.Reserve1.Cmp(minLiquidity) < 0) {
			continue
		}
		if pool.FeeDen == 0 || pool.FeeNum >= pool.FeeDen {
			continue
		}

		g.addEdge(Edge{
			PoolID:     pool.ID,
			Kind:       pool.Kind,
			From:       pool.Token0,
			To:         pool.Token1,
			ReserveIn:  pool.Reserve0,
			ReserveOut: pool.Reserve1,
			FeeNum:     pool.FeeNum,
			FeeDen:     pool.FeeDen,
		})
		g.addEdge(Edge{
			PoolID:     pool.ID,
			Kind:       pool.Kind,
			From:       pool.Token1,
			To:         pool.Token0,
			ReserveIn:  pool.Reserve1,
			ReserveOut: pool.Reserve0,
			FeeNum:     pool.FeeNum,
			FeeDen:     pool.FeeDen,
		})
		g.poolCount++
	}

	return g
}

func (g *Graph) addEdge(e Edge) {
	g.adjacency[e.From] = append(g.adjacency[e.From], e)
	g.indexToken(e.From)
	g.indexToken(e.To)
}

func (g *Graph) indexToken(tokenID uint64) {
	if g.tokens.Contains(tokenID) {
		return
	}
	g.tokens.Add(tokenID)
	g.tokenToIndex[tokenID] = len(g.tokenList)
	g.tokenList = append(g.tokenList, tokenID)
}

// Edges returns the outbound edges from a token. The returned slice is owned
// by the graph and must not be mutated.
func (g *Graph) Edges(tokenID uint64) []Edge {
	return g.adjacency[tokenID]
}

// HasToken reports whether the token appears in any accepted pool.
func (g *Graph) HasToken(tokenID uint64) bool {
	return g.tokens.Contains(tokenID)
}

// TokenIndex returns the dense index assigned to a token, for use with
// bitset visited-sets sized by TokenCount.
func (g *Graph) TokenIndex(tokenID uint64) (int, bool) {
	idx, ok := g.tokenToIndex[tokenID]
	return idx, ok
}

// TokenCount returns the number of distinct tokens in the graph.
func (g *Graph) TokenCount() int {
	return len(g.tokenList)
}

// PoolCount returns the number of pools accepted at construction.
func (g *Graph) PoolCount() int {
	return g.poolCount
}
