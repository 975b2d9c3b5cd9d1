package tokenregistry

import "github.com/ethereum/go-ethereum/common"

// Token is a safe, structured representation of a token's metadata.
// The engine proper works on numeric ids; symbols and decimals are only
// consulted when rendering route and arbitrage results.
type Token struct {
	ID       uint64         `json:"id"`
	Address  common.Address `json:"address"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
	Native   bool           `json:"native"`
}
