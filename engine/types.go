package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKind distinguishes the two pool shapes the engine understands.
type PoolKind uint8

const (
	// PoolKindNativeToken is a pool pairing the chain's native asset with a token.
	PoolKindNativeToken PoolKind = iota
	// PoolKindTokenToken is a pool pairing two tokens.
	PoolKindTokenToken
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindNativeToken:
		return "native/token"
	case PoolKindTokenToken:
		return "token/token"
	default:
		return "unknown"
	}
}

// Pool is the external input to the engine: one constant-product liquidity
// pool as discovered by an upstream indexer. Reserves are oriented to the
// pool's own token order, not to any traversal direction. A Pool is
// immutable for the duration of one scan.
type Pool struct {
	ID       uint64         `json:"id"`
	Address  common.Address `json:"address"`
	Kind     PoolKind       `json:"kind"`
	Token0   uint64         `json:"token0"`
	Token1   uint64         `json:"token1"`
	Reserve0 *big.Int       `json:"reserve0"`
	Reserve1 *big.Int       `json:"reserve1"`

	// Proportional fee taken from the input amount: FeeNum/FeeDen,
	// e.g. 3/1000 for 0.3%.
	FeeNum uint64 `json:"feeNum"`
	FeeDen uint64 `json:"feeDen"`
}

// PoolSnapshot is a point-in-time view of every discovered pool. It is the
// unit delivered by the snapshot stream and consumed by poolgraph.Build.
// The engine retains no state across snapshots.
type PoolSnapshot struct {
	Sequence  uint64 `json:"sequence"`
	Timestamp uint64 `json:"timestamp"`
	Pools     []Pool `json:"pools"`
}
