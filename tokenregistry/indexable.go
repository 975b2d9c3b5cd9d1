package tokenregistry

import "github.com/ethereum/go-ethereum/common"

// IndexableTokenSystem provides fast, indexed access to token metadata.
type IndexableTokenSystem struct {
	byID      map[uint64]Token
	byAddress map[common.Address]Token
	bySymbol  map[string]Token
	all       []Token
}

// NewIndexableTokenSystem creates a new indexed token system from a raw slice.
func NewIndexableTokenSystem(tokens []Token) *IndexableTokenSystem {
	byID := make(map[uint64]Token, len(tokens))
	byAddress := make(map[common.Address]Token, len(tokens))
	bySymbol := make(map[string]Token, len(tokens))

	for _, t := range tokens {
		byID[t.ID] = t
		byAddress[t.Address] = t
		bySymbol[t.Symbol] = t
	}

	return &IndexableTokenSystem{
		byID:      byID,
		byAddress: byAddress,
		bySymbol:  bySymbol,
		all:       tokens,
	}
}

// GetByID retrieves a token by its unique ID.
func (its *IndexableTokenSystem) GetByID(id uint64) (Token, bool) {
	t, ok := its.byID[id]
	return t, ok
}

// GetByAddress retrieves a token by its contract address.
func (its *IndexableTokenSystem) GetByAddress(address common.Address) (Token, bool) {
	t, ok := its.byAddress[address]
	return t, ok
}

// GetBySymbol retrieves a token by its display symbol.
func (its *IndexableTokenSystem) GetBySymbol(symbol string) (Token, bool) {
	t, ok := its.bySymbol[symbol]
	return t, ok
}

// All returns a defensive copy of the slice of all tokens in the system.
func (its *IndexableTokenSystem) All() []Token {
	allCopy := make([]Token, len(its.all))
	copy(allCopy, its.all)
	return allCopy
}
