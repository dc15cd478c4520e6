package model

import "github.com/ethereum/go-ethereum/common"

// LiquidityPosition is a derived snapshot of a caller's share in a pair.
type LiquidityPosition struct {
	Pair            common.Address `json:"pair"`
	Token0          Token          `json:"token0"`
	Token1          Token          `json:"token1"`
	Balance         string         `json:"balance"`
	TotalSupply     string         `json:"total_supply"`
	Reserve0        string         `json:"reserve0"`
	Reserve1        string         `json:"reserve1"`
	PoolShare       string         `json:"pool_share"`
	Token0Deposited string         `json:"token0_deposited"`
	Token1Deposited string         `json:"token1_deposited"`
}
