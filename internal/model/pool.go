package model

import "github.com/ethereum/go-ethereum/common"

// PoolInfo is a display record for a registered pair. TVL, Volume24h and APR
// are best-effort estimates, not USD-denominated values.
type PoolInfo struct {
	Pair        common.Address `json:"pair"`
	Token0      Token          `json:"token0"`
	Token1      Token          `json:"token1"`
	Reserve0    string         `json:"reserve0"`
	Reserve1    string         `json:"reserve1"`
	TotalSupply string         `json:"total_supply"`
	TVL         string         `json:"tvl"`
	Volume24h   string         `json:"volume_24h"`
	APR         string         `json:"apr"`
}
