package model

import "time"

// PoolSnapshot is a PoolInfo observed at a given time, used for exports.
type PoolSnapshot struct {
	PoolInfo
	ChainID    uint64    `json:"chain_id"`
	Block      uint64    `json:"block"`
	ObservedAt time.Time `json:"observed_at"`
}
