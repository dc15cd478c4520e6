package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ReservePair is a point-in-time read of a constant-product pair.
// Reserve0/Reserve1 follow the pair contract's own token ordering.
type ReservePair struct {
	PairAddress common.Address `json:"pair_address"`
	Token0      common.Address `json:"token0"`
	Token1      common.Address `json:"token1"`
	Reserve0    *big.Int       `json:"reserve0"`
	Reserve1    *big.Int       `json:"reserve1"`
	TotalSupply *big.Int       `json:"total_supply"`
}

// ReservesFor returns the reserves ordered as (reserve of token, reserve of the other side).
func (p ReservePair) ReservesFor(token common.Address) (*big.Int, *big.Int) {
	if token == p.Token1 {
		return p.Reserve1, p.Reserve0
	}
	return p.Reserve0, p.Reserve1
}
